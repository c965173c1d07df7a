package resolver

import (
	"context"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

type Liquidate struct {
	Obligation      *state.ObligationSnapshot
	RepayReserve    *state.ReserveSnapshot
	WithdrawReserve *state.ReserveSnapshot
	Refresh         *RefreshPlan
	Accounts        instruction.LiquidateAccounts
}

// Liquidate 清算人偿还 repayReserve 的债务，按折扣取走 withdrawReserve 的抵押并直接赎回
func (r *Resolver) Liquidate(ctx context.Context, liquidator, obligationAddr, repayAddr, withdrawAddr types.Pubkey) (*Liquidate, error) {
	obligation, err := r.fetchObligation(ctx, obligationAddr, types.Pubkey{})
	if err != nil {
		return nil, err
	}
	repay, err := r.fetchReserve(ctx, repayAddr)
	if err != nil {
		return nil, err
	}
	withdraw, err := r.fetchReserve(ctx, withdrawAddr)
	if err != nil {
		return nil, err
	}
	if err := sameMarket(obligation, repay, withdraw); err != nil {
		return nil, err
	}
	if consts.IsUnset(withdraw.LiquidityFeeVault) {
		return nil, missingFeeVault(withdraw)
	}

	plan, err := r.refreshPlan(ctx, obligation, repay, withdraw)
	if err != nil {
		return nil, err
	}
	authority, err := r.marketAuthority(obligation.LendingMarket)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(liquidator, repay.LiquidityMint, repay.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	destCollateral, err := userTokenAccount(liquidator, withdraw.CollateralMint, consts.TokenProgram)
	if err != nil {
		return nil, err
	}
	destLiquidity, err := userTokenAccount(liquidator, withdraw.LiquidityMint, withdraw.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}

	return &Liquidate{
		Obligation:      obligation,
		RepayReserve:    repay,
		WithdrawReserve: withdraw,
		Refresh:         plan,
		Accounts: instruction.LiquidateAccounts{
			Liquidator:                          liquidator,
			Obligation:                          obligation.Address,
			LendingMarket:                       obligation.LendingMarket,
			LendingMarketAuthority:              authority,
			RepayReserve:                        repay.Address,
			RepayReserveLiquidityMint:           repay.LiquidityMint,
			RepayReserveLiquiditySupply:         repay.LiquiditySupplyVault,
			WithdrawReserve:                     withdraw.Address,
			WithdrawReserveLiquidityMint:        withdraw.LiquidityMint,
			WithdrawReserveCollateralMint:       withdraw.CollateralMint,
			WithdrawReserveCollateralSupply:     withdraw.CollateralSupplyVault,
			WithdrawReserveLiquiditySupply:      withdraw.LiquiditySupplyVault,
			WithdrawReserveLiquidityFeeReceiver: withdraw.LiquidityFeeVault,
			UserSourceLiquidity:                 source,
			UserDestinationCollateral:           destCollateral,
			UserDestinationLiquidity:            destLiquidity,
			CollateralTokenProgram:              consts.TokenProgram,
			RepayLiquidityTokenProgram:          repay.LiquidityTokenProgram,
			WithdrawLiquidityTokenProgram:       withdraw.LiquidityTokenProgram,
			Remaining:                           plan.Obligation.Remaining,
		},
	}, nil
}

func missingFeeVault(reserve *state.ReserveSnapshot) error {
	return errs.MissingDependency("reserve %s liquidity fee vault not populated", reserve.Address)
}
