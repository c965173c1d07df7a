package pda

import (
	"crypto/sha256"
	"fmt"
	"math"

	"filippo.io/edwards25519"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

// Result 派生结果：地址 + bump
type Result struct {
	Address types.Pubkey
	Bump    uint8
}

// onCurve 测试中可替换，用于覆盖 bump 耗尽分支
var onCurve = IsOnCurve

// IsOnCurve 判断地址是否为合法的 ed25519 公钥（即存在对应私钥的可能）
func IsOnCurve(p types.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// CreateProgramAddress sha256(seeds ‖ programID ‖ "ProgramDerivedAddress")，落在曲线上时返回 ErrInvalidSeeds
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	if err := checkSeeds(seeds, 0); err != nil {
		return types.Pubkey{}, err
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(consts.SeedProgramDerivedLabel)

	var addr types.Pubkey
	copy(addr[:], h.Sum(nil))
	if onCurve(addr) {
		return types.Pubkey{}, errs.ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress 追加 bump（255 递减到 0），返回第一个不在曲线上的地址
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, uint8, error) {
	// bump 本身占一个种子位
	if err := checkSeeds(seeds, 1); err != nil {
		return types.Pubkey{}, 0, err
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return types.Pubkey{}, 0, fmt.Errorf("%w: program=%s seeds=%d", errs.ErrNoValidBumpFound, programID, len(seeds))
}

// Derive 与 FindProgramAddress 相同，返回 Result 便于调用方保留 bump
func Derive(programID types.Pubkey, seeds ...[]byte) (Result, error) {
	addr, bump, err := FindProgramAddress(seeds, programID)
	if err != nil {
		return Result{}, err
	}
	return Result{Address: addr, Bump: bump}, nil
}

func checkSeeds(seeds [][]byte, reserved int) error {
	if len(seeds)+reserved > consts.MaxSeeds {
		return fmt.Errorf("%w: %d seeds exceeds max %d", errs.ErrSeedTooLong, len(seeds)+reserved, consts.MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > consts.MaxSeedLength {
			return fmt.Errorf("%w: seed[%d] has %d bytes, max %d", errs.ErrSeedTooLong, i, len(seed), consts.MaxSeedLength)
		}
	}
	return nil
}
