package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type DepositReserveLiquidityAccounts struct {
	Owner                     types.Pubkey
	Reserve                   types.Pubkey
	LendingMarket             types.Pubkey
	LendingMarketAuthority    types.Pubkey
	ReserveLiquidityMint      types.Pubkey
	ReserveLiquiditySupply    types.Pubkey
	ReserveCollateralMint     types.Pubkey
	UserSourceLiquidity       types.Pubkey
	UserDestinationCollateral types.Pubkey
	CollateralTokenProgram    types.Pubkey
	LiquidityTokenProgram     types.Pubkey
}

func NewDepositReserveLiquidityInstruction(programID types.Pubkey, accounts *DepositReserveLiquidityAccounts, args *LiquidityAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 12).
		signer(accounts.Owner, false).
		writable(accounts.Reserve).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveLiquiditySupply).
		writable(accounts.ReserveCollateralMint).
		writable(accounts.UserSourceLiquidity).
		writable(accounts.UserDestinationCollateral).
		readonly(accounts.CollateralTokenProgram).
		readonly(accounts.LiquidityTokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, DepositReserveLiquidityDiscriminator, *args)
}

type DepositObligationCollateralAccounts struct {
	Owner                        types.Pubkey
	Obligation                   types.Pubkey
	LendingMarket                types.Pubkey
	DepositReserve               types.Pubkey
	ReserveDestinationCollateral types.Pubkey
	UserSourceCollateral         types.Pubkey
	TokenProgram                 types.Pubkey
}

func NewDepositObligationCollateralInstruction(programID types.Pubkey, accounts *DepositObligationCollateralAccounts, args *CollateralAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 8).
		signer(accounts.Owner, false).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		writable(accounts.DepositReserve).
		writable(accounts.ReserveDestinationCollateral).
		writable(accounts.UserSourceCollateral).
		readonly(accounts.TokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, DepositObligationCollateralDiscriminator, *args)
}

// DepositAndCollateralizeAccounts 存入流动性并直接作为抵押
type DepositAndCollateralizeAccounts struct {
	Owner                                types.Pubkey
	Obligation                           types.Pubkey
	LendingMarket                        types.Pubkey
	LendingMarketAuthority               types.Pubkey
	Reserve                              types.Pubkey
	ReserveLiquidityMint                 types.Pubkey
	ReserveLiquiditySupply               types.Pubkey
	ReserveCollateralMint                types.Pubkey
	ReserveDestinationDepositCollateral  types.Pubkey
	UserSourceLiquidity                  types.Pubkey
	PlaceholderUserDestinationCollateral types.OptionalPubkey
	CollateralTokenProgram               types.Pubkey
	LiquidityTokenProgram                types.Pubkey
}

func NewDepositAndCollateralizeInstruction(programID types.Pubkey, accounts *DepositAndCollateralizeAccounts, args *LiquidityAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 14).
		signer(accounts.Owner, true).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.Reserve).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveLiquiditySupply).
		writable(accounts.ReserveCollateralMint).
		writable(accounts.ReserveDestinationDepositCollateral).
		writable(accounts.UserSourceLiquidity).
		optional(accounts.PlaceholderUserDestinationCollateral, false).
		readonly(accounts.CollateralTokenProgram).
		readonly(accounts.LiquidityTokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, DepositAndCollateralizeDiscriminator, *args)
}
