package operation

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/resolver"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/svc"
)

type ReserveAmountParams struct {
	Reserve types.Pubkey
	Amount  uint64
}

// BuildDepositReserveLiquidity refresh_reserve + deposit_reserve_liquidity，换回的 cToken 留在用户钱包
func BuildDepositReserveLiquidity(ctx context.Context, s *svc.ServiceContext, p ReserveAmountParams) (*Plan, error) {
	resolved, err := s.Resolver.DepositReserveLiquidity(ctx, s.Signer.PublicKey(), p.Reserve)
	if err != nil {
		return nil, err
	}
	refresh := resolver.RefreshReserveAccounts(resolved.Reserve)
	refreshIx, err := instruction.NewRefreshReserveInstruction(s.ProgramID, &refresh)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewDepositReserveLiquidityInstruction(s.ProgramID, &resolved.Accounts, &instruction.LiquidityAmountArgs{
		LiquidityAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "deposit_reserve_liquidity", Instructions: []instruction.Instruction{refreshIx, ix}}, nil
}

func DepositReserveLiquidity(ctx context.Context, s *svc.ServiceContext, p ReserveAmountParams) (*submitter.Result, error) {
	plan, err := BuildDepositReserveLiquidity(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

// BuildRedeemCollateral refresh_reserve + redeem_reserve_collateral
func BuildRedeemCollateral(ctx context.Context, s *svc.ServiceContext, p ReserveAmountParams) (*Plan, error) {
	resolved, err := s.Resolver.RedeemReserveCollateral(ctx, s.Signer.PublicKey(), p.Reserve)
	if err != nil {
		return nil, err
	}
	refresh := resolver.RefreshReserveAccounts(resolved.Reserve)
	refreshIx, err := instruction.NewRefreshReserveInstruction(s.ProgramID, &refresh)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewRedeemReserveCollateralInstruction(s.ProgramID, &resolved.Accounts, &instruction.CollateralAmountArgs{
		CollateralAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "redeem_reserve_collateral", Instructions: []instruction.Instruction{refreshIx, ix}}, nil
}

func RedeemCollateral(ctx context.Context, s *svc.ServiceContext, p ReserveAmountParams) (*submitter.Result, error) {
	plan, err := BuildRedeemCollateral(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}
