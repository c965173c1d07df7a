package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type LiquidateAccounts struct {
	Liquidator                          types.Pubkey
	Obligation                          types.Pubkey
	LendingMarket                       types.Pubkey
	LendingMarketAuthority              types.Pubkey
	RepayReserve                        types.Pubkey
	RepayReserveLiquidityMint           types.Pubkey
	RepayReserveLiquiditySupply         types.Pubkey
	WithdrawReserve                     types.Pubkey
	WithdrawReserveLiquidityMint        types.Pubkey
	WithdrawReserveCollateralMint       types.Pubkey
	WithdrawReserveCollateralSupply     types.Pubkey
	WithdrawReserveLiquiditySupply      types.Pubkey
	WithdrawReserveLiquidityFeeReceiver types.Pubkey
	UserSourceLiquidity                 types.Pubkey
	UserDestinationCollateral           types.Pubkey
	UserDestinationLiquidity            types.Pubkey
	CollateralTokenProgram              types.Pubkey
	RepayLiquidityTokenProgram          types.Pubkey
	WithdrawLiquidityTokenProgram       types.Pubkey
	// Remaining 与 refresh_obligation 相同的尾部账户
	Remaining []types.Pubkey
}

func NewLiquidateInstruction(programID types.Pubkey, accounts *LiquidateAccounts, args *LiquidateArgs) (Instruction, error) {
	if err := args.validate(); err != nil {
		return Instruction{}, err
	}
	metas := newAccountList(programID, 20+len(accounts.Remaining)).
		signer(accounts.Liquidator, false).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.RepayReserve).
		readonly(accounts.RepayReserveLiquidityMint).
		writable(accounts.RepayReserveLiquiditySupply).
		writable(accounts.WithdrawReserve).
		readonly(accounts.WithdrawReserveLiquidityMint).
		writable(accounts.WithdrawReserveCollateralMint).
		writable(accounts.WithdrawReserveCollateralSupply).
		writable(accounts.WithdrawReserveLiquiditySupply).
		writable(accounts.WithdrawReserveLiquidityFeeReceiver).
		writable(accounts.UserSourceLiquidity).
		writable(accounts.UserDestinationCollateral).
		writable(accounts.UserDestinationLiquidity).
		readonly(accounts.CollateralTokenProgram).
		readonly(accounts.RepayLiquidityTokenProgram).
		readonly(accounts.WithdrawLiquidityTokenProgram).
		readonly(consts.SysvarInstructions).
		remaining(accounts.Remaining).
		build()
	return newInstruction(programID, metas, LiquidateAndRedeemDiscriminator, *args)
}
