package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type InitLendingMarketAccounts struct {
	LendingMarketOwner     types.Pubkey
	LendingMarket          types.Pubkey
	LendingMarketAuthority types.Pubkey
}

// NewInitLendingMarketInstruction lending_market 账户需在同一笔交易中预先 create_account
func NewInitLendingMarketInstruction(programID types.Pubkey, accounts *InitLendingMarketAccounts, args *InitLendingMarketArgs) (Instruction, error) {
	metas := newAccountList(programID, 5).
		signer(accounts.LendingMarketOwner, true).
		writable(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		readonly(consts.SystemProgram).
		readonly(consts.SysvarRent).
		build()
	return newInstruction(programID, metas, InitLendingMarketDiscriminator, *args)
}

type InitReserveAccounts struct {
	LendingMarketOwner      types.Pubkey
	LendingMarket           types.Pubkey
	LendingMarketAuthority  types.Pubkey
	Reserve                 types.Pubkey
	ReserveLiquidityMint    types.Pubkey
	ReserveLiquiditySupply  types.Pubkey
	FeeReceiver             types.Pubkey
	ReserveCollateralMint   types.Pubkey
	ReserveCollateralSupply types.Pubkey
	InitialLiquiditySource  types.Pubkey
	LiquidityTokenProgram   types.Pubkey
	CollateralTokenProgram  types.Pubkey
}

func NewInitReserveInstruction(programID types.Pubkey, accounts *InitReserveAccounts) (Instruction, error) {
	metas := newAccountList(programID, 14).
		signer(accounts.LendingMarketOwner, true).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.Reserve).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveLiquiditySupply).
		writable(accounts.FeeReceiver).
		writable(accounts.ReserveCollateralMint).
		writable(accounts.ReserveCollateralSupply).
		writable(accounts.InitialLiquiditySource).
		readonly(consts.SysvarRent).
		readonly(accounts.LiquidityTokenProgram).
		readonly(accounts.CollateralTokenProgram).
		readonly(consts.SystemProgram).
		build()
	return newInstruction(programID, metas, InitReserveDiscriminator, nil)
}

type InitUserMetadataAccounts struct {
	Owner                types.Pubkey
	FeePayer             types.Pubkey
	UserMetadata         types.Pubkey
	ReferrerUserMetadata types.OptionalPubkey
}

func NewInitUserMetadataInstruction(programID types.Pubkey, accounts *InitUserMetadataAccounts, args *InitUserMetadataArgs) (Instruction, error) {
	metas := newAccountList(programID, 6).
		signer(accounts.Owner, false).
		signer(accounts.FeePayer, true).
		writable(accounts.UserMetadata).
		optional(accounts.ReferrerUserMetadata, false).
		readonly(consts.SysvarRent).
		readonly(consts.SystemProgram).
		build()
	return newInstruction(programID, metas, InitUserMetadataDiscriminator, *args)
}

type InitObligationAccounts struct {
	ObligationOwner   types.Pubkey
	FeePayer          types.Pubkey
	Obligation        types.Pubkey
	LendingMarket     types.Pubkey
	Seed1Account      types.Pubkey
	Seed2Account      types.Pubkey
	OwnerUserMetadata types.Pubkey
}

func NewInitObligationInstruction(programID types.Pubkey, accounts *InitObligationAccounts, args *InitObligationArgs) (Instruction, error) {
	metas := newAccountList(programID, 9).
		signer(accounts.ObligationOwner, false).
		signer(accounts.FeePayer, true).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.Seed1Account).
		readonly(accounts.Seed2Account).
		readonly(accounts.OwnerUserMetadata).
		readonly(consts.SysvarRent).
		readonly(consts.SystemProgram).
		build()
	return newInstruction(programID, metas, InitObligationDiscriminator, *args)
}
