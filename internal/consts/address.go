package consts

import "klend-client-sol/internal/pkg/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramIdStr = "ComputeBudget111111111111111111111111111111"

	// Sysvars
	SysvarRentStr         = "SysvarRent111111111111111111111111111111111"
	SysvarInstructionsStr = "Sysvar1nstructions1111111111111111111111111"

	// Lending: Kamino klend
	KlendProgramStr    = "KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD"
	KlendMainMarketStr = "7u3HeHxYDLhnCoErrtycNokbQYbWGzLs6JSDqGAv5PfF"

	// klend 用于表示“未配置”的占位地址（oracle、farm 等字段）
	KlendNullPubkeyStr = "nu11111111111111111111111111111111111111111"

	WSOLMintStr = "So11111111111111111111111111111111111111112"
	USDCMintStr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

var (
	// 特殊语义地址
	ZeroAddress = types.Pubkey{} // Pubkey::default()

	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	ComputeBudgetProgram   = types.PubkeyFromBase58(ComputeBudgetProgramIdStr)

	SysvarRent         = types.PubkeyFromBase58(SysvarRentStr)
	SysvarInstructions = types.PubkeyFromBase58(SysvarInstructionsStr)

	KlendProgram    = types.PubkeyFromBase58(KlendProgramStr)
	KlendMainMarket = types.PubkeyFromBase58(KlendMainMarketStr)
	KlendNullPubkey = types.PubkeyFromBase58(KlendNullPubkeyStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)
	USDCMint = types.PubkeyFromBase58(USDCMintStr)
)

// IsUnset 链上字段为全 0 或 klend 的 null 占位地址时视为未配置
func IsUnset(p types.Pubkey) bool {
	return p == ZeroAddress || p == KlendNullPubkey
}
