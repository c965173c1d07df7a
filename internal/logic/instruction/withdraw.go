package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type WithdrawObligationCollateralAccounts struct {
	Owner                     types.Pubkey
	Obligation                types.Pubkey
	LendingMarket             types.Pubkey
	LendingMarketAuthority    types.Pubkey
	WithdrawReserve           types.Pubkey
	ReserveSourceCollateral   types.Pubkey
	UserDestinationCollateral types.Pubkey
	TokenProgram              types.Pubkey
}

func NewWithdrawObligationCollateralInstruction(programID types.Pubkey, accounts *WithdrawObligationCollateralAccounts, args *CollateralAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 9).
		signer(accounts.Owner, false).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.WithdrawReserve).
		writable(accounts.ReserveSourceCollateral).
		writable(accounts.UserDestinationCollateral).
		readonly(accounts.TokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, WithdrawObligationCollateralDiscriminator, *args)
}

// WithdrawAndRedeemAccounts 取出抵押并直接赎回为流动性
type WithdrawAndRedeemAccounts struct {
	Owner                                types.Pubkey
	Obligation                           types.Pubkey
	LendingMarket                        types.Pubkey
	LendingMarketAuthority               types.Pubkey
	WithdrawReserve                      types.Pubkey
	ReserveLiquidityMint                 types.Pubkey
	ReserveSourceCollateral              types.Pubkey
	ReserveCollateralMint                types.Pubkey
	ReserveLiquiditySupply               types.Pubkey
	UserDestinationLiquidity             types.Pubkey
	PlaceholderUserDestinationCollateral types.OptionalPubkey
	CollateralTokenProgram               types.Pubkey
	LiquidityTokenProgram                types.Pubkey
}

func NewWithdrawAndRedeemInstruction(programID types.Pubkey, accounts *WithdrawAndRedeemAccounts, args *WithdrawAndRedeemArgs) (Instruction, error) {
	if err := args.validate(); err != nil {
		return Instruction{}, err
	}
	metas := newAccountList(programID, 14).
		signer(accounts.Owner, true).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.WithdrawReserve).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveSourceCollateral).
		writable(accounts.ReserveCollateralMint).
		writable(accounts.ReserveLiquiditySupply).
		writable(accounts.UserDestinationLiquidity).
		optional(accounts.PlaceholderUserDestinationCollateral, false).
		readonly(accounts.CollateralTokenProgram).
		readonly(accounts.LiquidityTokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, WithdrawAndRedeemDiscriminator, *args)
}
