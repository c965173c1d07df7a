package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type RedeemReserveCollateralAccounts struct {
	Owner                    types.Pubkey
	LendingMarket            types.Pubkey
	Reserve                  types.Pubkey
	LendingMarketAuthority   types.Pubkey
	ReserveLiquidityMint     types.Pubkey
	ReserveCollateralMint    types.Pubkey
	ReserveLiquiditySupply   types.Pubkey
	UserSourceCollateral     types.Pubkey
	UserDestinationLiquidity types.Pubkey
	CollateralTokenProgram   types.Pubkey
	LiquidityTokenProgram    types.Pubkey
}

func NewRedeemReserveCollateralInstruction(programID types.Pubkey, accounts *RedeemReserveCollateralAccounts, args *CollateralAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 12).
		signer(accounts.Owner, false).
		readonly(accounts.LendingMarket).
		writable(accounts.Reserve).
		readonly(accounts.LendingMarketAuthority).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveCollateralMint).
		writable(accounts.ReserveLiquiditySupply).
		writable(accounts.UserSourceCollateral).
		writable(accounts.UserDestinationLiquidity).
		readonly(accounts.CollateralTokenProgram).
		readonly(accounts.LiquidityTokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, RedeemReserveCollateralDiscriminator, *args)
}
