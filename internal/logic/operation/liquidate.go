package operation

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/svc"
)

type LiquidateParams struct {
	Obligation      types.Pubkey
	RepayReserve    types.Pubkey
	WithdrawReserve types.Pubkey
	LiquidityAmount uint64
	// MinReceived 赎回后至少拿到的流动性数量，0 表示不限制
	MinReceived           uint64
	MaxLtvOverridePercent uint64
}

func BuildLiquidate(ctx context.Context, s *svc.ServiceContext, p LiquidateParams) (*Plan, error) {
	resolved, err := s.Resolver.Liquidate(ctx, s.Signer.PublicKey(), p.Obligation, p.RepayReserve, p.WithdrawReserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewLiquidateInstruction(s.ProgramID, &resolved.Accounts, &instruction.LiquidateArgs{
		LiquidityAmount:                      p.LiquidityAmount,
		MinAcceptableReceivedLiquidityAmount: p.MinReceived,
		MaxAllowedLtvOverridePercent:         p.MaxLtvOverridePercent,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, resolved.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "liquidate", Instructions: ixs}, nil
}

// Liquidate 签名者作为清算人，偿还债务并直接拿到赎回后的流动性
func Liquidate(ctx context.Context, s *svc.ServiceContext, p LiquidateParams) (*submitter.Result, error) {
	plan, err := BuildLiquidate(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}
