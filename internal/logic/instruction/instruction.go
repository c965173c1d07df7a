package instruction

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"

	"klend-client-sol/internal/pkg/anchor"
	"klend-client-sol/internal/pkg/types"
)

// AccountMeta 指令中的单个账户槽位，顺序必须与程序声明的账户结构完全一致
type AccountMeta struct {
	PubKey     types.Pubkey `yaml:"pubkey"`
	IsSigner   bool         `yaml:"is_signer"`
	IsWritable bool         `yaml:"is_writable"`
}

// Instruction 与传输层无关的指令表示
type Instruction struct {
	ProgramID types.Pubkey  `yaml:"program_id"`
	Accounts  []AccountMeta `yaml:"accounts"`
	Data      []byte        `yaml:"-"`
}

// ToSdk 转换为 blocto sdk 的指令类型
func (ix Instruction) ToSdk() sdktypes.Instruction {
	metas := make([]sdktypes.AccountMeta, len(ix.Accounts))
	for i, m := range ix.Accounts {
		metas[i] = sdktypes.AccountMeta{
			PubKey:     common.PublicKey(m.PubKey),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		}
	}
	return sdktypes.Instruction{
		ProgramID: common.PublicKey(ix.ProgramID),
		Accounts:  metas,
		Data:      ix.Data,
	}
}

// FromSdk 将 sdk 生成的指令（compute budget / system）转换回来
func FromSdk(ix sdktypes.Instruction) Instruction {
	metas := make([]AccountMeta, len(ix.Accounts))
	for i, m := range ix.Accounts {
		metas[i] = AccountMeta{
			PubKey:     types.Pubkey(m.PubKey),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		}
	}
	return Instruction{
		ProgramID: types.Pubkey(ix.ProgramID),
		Accounts:  metas,
		Data:      ix.Data,
	}
}

func ToSdkAll(ixs []Instruction) []sdktypes.Instruction {
	out := make([]sdktypes.Instruction, len(ixs))
	for i, ix := range ixs {
		out[i] = ix.ToSdk()
	}
	return out
}

// accountList 按固定顺序收集账户
// 可选槽位 Absent 时：后面还有账户则填程序 id 占位，位于末尾则整体省略
type accountList struct {
	programID types.Pubkey
	metas     []AccountMeta
	pending   int
}

func newAccountList(programID types.Pubkey, capacity int) *accountList {
	return &accountList{programID: programID, metas: make([]AccountMeta, 0, capacity)}
}

func (l *accountList) signer(p types.Pubkey, writable bool) *accountList {
	l.flush()
	l.metas = append(l.metas, AccountMeta{PubKey: p, IsSigner: true, IsWritable: writable})
	return l
}

func (l *accountList) writable(p types.Pubkey) *accountList {
	l.flush()
	l.metas = append(l.metas, AccountMeta{PubKey: p, IsWritable: true})
	return l
}

func (l *accountList) readonly(p types.Pubkey) *accountList {
	l.flush()
	l.metas = append(l.metas, AccountMeta{PubKey: p})
	return l
}

func (l *accountList) optional(o types.OptionalPubkey, writable bool) *accountList {
	p, ok := o.Get()
	if !ok {
		l.pending++
		return l
	}
	l.flush()
	l.metas = append(l.metas, AccountMeta{PubKey: p, IsWritable: writable})
	return l
}

// remaining 追加变长尾部账户，全部只读非签名
func (l *accountList) remaining(keys []types.Pubkey) *accountList {
	if len(keys) == 0 {
		return l
	}
	l.flush()
	for _, k := range keys {
		l.metas = append(l.metas, AccountMeta{PubKey: k})
	}
	return l
}

func (l *accountList) flush() {
	for ; l.pending > 0; l.pending-- {
		l.metas = append(l.metas, AccountMeta{PubKey: l.programID})
	}
}

func (l *accountList) build() []AccountMeta {
	l.pending = 0
	return l.metas
}

// encodeData discriminator + borsh(args)，args 为 nil 时只有 discriminator
// args 必须传值：borsh 会把指针编码成 Option
func encodeData(disc anchor.Discriminator, args any) ([]byte, error) {
	if args == nil {
		return append([]byte(nil), disc[:]...), nil
	}
	body, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("borsh serialize %T: %w", args, err)
	}
	data := make([]byte, 0, anchor.DiscriminatorLen+len(body))
	data = append(data, disc[:]...)
	return append(data, body...), nil
}

func newInstruction(programID types.Pubkey, accounts []AccountMeta, disc anchor.Discriminator, args any) (Instruction, error) {
	data, err := encodeData(disc, args)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{ProgramID: programID, Accounts: accounts, Data: data}, nil
}
