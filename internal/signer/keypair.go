package signer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

// Keypair 本地 ed25519 签名者
type Keypair struct {
	account sdktypes.Account
}

func (k *Keypair) PublicKey() types.Pubkey {
	return types.Pubkey(k.account.PublicKey)
}

func (k *Keypair) Sign(message []byte) ([]byte, error) {
	return k.account.Sign(message), nil
}

// NewEphemeral 新建账户（lending market / reserve）时使用的一次性 keypair
func NewEphemeral() *Keypair {
	return &Keypair{account: sdktypes.NewAccount()}
}

// FromBytes 64 字节 secret key（私钥种子 + 公钥）
func FromBytes(secret []byte) (*Keypair, error) {
	if len(secret) != 64 {
		return nil, errs.InvalidArgument("keypair must be 64 bytes, got %d", len(secret))
	}
	account, err := sdktypes.AccountFromBytes(secret)
	if err != nil {
		return nil, errs.InvalidArgument("invalid keypair: %v", err)
	}
	return &Keypair{account: account}, nil
}

// Load 读取 solana-keygen 生成的 JSON keypair 文件（64 个整数组成的数组）
func Load(path string) (*Keypair, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair %s: %w", path, err)
	}
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, errs.InvalidArgument("parse keypair %s: %v", path, err)
	}
	secret := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, errs.InvalidArgument("keypair %s: byte %d out of range: %d", path, i, v)
		}
		secret[i] = byte(v)
	}
	return FromBytes(secret)
}

// Save 以 solana-keygen 兼容格式写出，权限 0600
func (k *Keypair) Save(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}
	ints := make([]int, len(k.account.PrivateKey))
	for i, b := range k.account.PrivateKey {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
