package pda

import (
	"fmt"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

// 以下为 klend 各类 PDA 的种子方案

func LendingMarketAuthority(programID, lendingMarket types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedLendingMarketAuth, lendingMarket[:])
}

func ReserveLiquiditySupply(programID, lendingMarket, mint types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedReserveLiqSupply, lendingMarket[:], mint[:])
}

func ReserveFeeVault(programID, lendingMarket, mint types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedFeeReceiver, lendingMarket[:], mint[:])
}

func ReserveCollateralMint(programID, lendingMarket, mint types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedReserveCollMint, lendingMarket[:], mint[:])
}

func ReserveCollateralSupply(programID, lendingMarket, mint types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedReserveCollSupply, lendingMarket[:], mint[:])
}

func UserMetadata(programID, owner types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedUserMetadata, owner[:])
}

func ReferrerTokenState(programID, referrer, reserve types.Pubkey) (types.Pubkey, error) {
	return address(programID, consts.SeedReferrerTokenState, referrer[:], reserve[:])
}

// Obligation 种子: [tag, id, owner, lending_market, seed1, seed2]
func Obligation(programID types.Pubkey, tag, id uint8, owner, lendingMarket, seed1, seed2 types.Pubkey) (types.Pubkey, error) {
	return address(programID, []byte{tag}, []byte{id}, owner[:], lendingMarket[:], seed1[:], seed2[:])
}

// AssociatedTokenAccount 种子: [owner, token_program, mint]，由 ATA 程序派生
func AssociatedTokenAccount(owner, mint, tokenProgram types.Pubkey) (types.Pubkey, error) {
	return address(consts.AssociatedTokenProgram, owner[:], tokenProgram[:], mint[:])
}

func address(programID types.Pubkey, seeds ...[]byte) (types.Pubkey, error) {
	addr, _, err := FindProgramAddress(seeds, programID)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("derive %q: %w", seeds[0], err)
	}
	return addr, nil
}
