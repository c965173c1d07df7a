package resolver

import (
	"context"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/types"
)

type DepositLiquidity struct {
	Reserve  *state.ReserveSnapshot
	Accounts instruction.DepositReserveLiquidityAccounts
}

// DepositReserveLiquidity 用户流动性 ATA -> reserve，换回 cToken 到用户抵押 ATA
func (r *Resolver) DepositReserveLiquidity(ctx context.Context, owner, reserveAddr types.Pubkey) (*DepositLiquidity, error) {
	reserve, err := r.fetchReserve(ctx, reserveAddr)
	if err != nil {
		return nil, err
	}
	authority, err := r.marketAuthority(reserve.LendingMarket)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(owner, reserve.LiquidityMint, reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	dest, err := userTokenAccount(owner, reserve.CollateralMint, consts.TokenProgram)
	if err != nil {
		return nil, err
	}

	return &DepositLiquidity{
		Reserve: reserve,
		Accounts: instruction.DepositReserveLiquidityAccounts{
			Owner:                     owner,
			Reserve:                   reserve.Address,
			LendingMarket:             reserve.LendingMarket,
			LendingMarketAuthority:    authority,
			ReserveLiquidityMint:      reserve.LiquidityMint,
			ReserveLiquiditySupply:    reserve.LiquiditySupplyVault,
			ReserveCollateralMint:     reserve.CollateralMint,
			UserSourceLiquidity:       source,
			UserDestinationCollateral: dest,
			CollateralTokenProgram:    consts.TokenProgram,
			LiquidityTokenProgram:     reserve.LiquidityTokenProgram,
		},
	}, nil
}

type RedeemCollateral struct {
	Reserve  *state.ReserveSnapshot
	Accounts instruction.RedeemReserveCollateralAccounts
}

// RedeemReserveCollateral cToken -> 流动性，需要先 refresh_reserve
func (r *Resolver) RedeemReserveCollateral(ctx context.Context, owner, reserveAddr types.Pubkey) (*RedeemCollateral, error) {
	reserve, err := r.fetchReserve(ctx, reserveAddr)
	if err != nil {
		return nil, err
	}
	authority, err := r.marketAuthority(reserve.LendingMarket)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(owner, reserve.CollateralMint, consts.TokenProgram)
	if err != nil {
		return nil, err
	}
	dest, err := userTokenAccount(owner, reserve.LiquidityMint, reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}

	return &RedeemCollateral{
		Reserve: reserve,
		Accounts: instruction.RedeemReserveCollateralAccounts{
			Owner:                    owner,
			LendingMarket:            reserve.LendingMarket,
			Reserve:                  reserve.Address,
			LendingMarketAuthority:   authority,
			ReserveLiquidityMint:     reserve.LiquidityMint,
			ReserveCollateralMint:    reserve.CollateralMint,
			ReserveLiquiditySupply:   reserve.LiquiditySupplyVault,
			UserSourceCollateral:     source,
			UserDestinationLiquidity: dest,
			CollateralTokenProgram:   consts.TokenProgram,
			LiquidityTokenProgram:    reserve.LiquidityTokenProgram,
		},
	}, nil
}
