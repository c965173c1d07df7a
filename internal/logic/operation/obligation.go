package operation

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/svc"
)

// ObligationAmountParams 针对 obligation 中某个 reserve 的操作
type ObligationAmountParams struct {
	Obligation types.Pubkey
	Reserve    types.Pubkey
	Amount     uint64
}

type WithdrawParams struct {
	ObligationAmountParams
	// LtvCheck 取 instruction.LtvMaxWithdrawalCheck*，默认按 max LTV 校验
	LtvCheck uint8
}

// BuildDepositCollateral 流动性直接存入并抵押（deposit_reserve_liquidity_and_obligation_collateral）
func BuildDepositCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*Plan, error) {
	op, err := s.Resolver.DepositAndCollateralize(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewDepositAndCollateralizeInstruction(s.ProgramID, &op.Accounts, &instruction.LiquidityAmountArgs{
		LiquidityAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "deposit_collateral", Instructions: ixs}, nil
}

func DepositCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*submitter.Result, error) {
	plan, err := BuildDepositCollateral(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

// BuildWithdrawCollateral 取回抵押并赎回为流动性（withdraw_obligation_collateral_and_redeem_reserve_collateral）
func BuildWithdrawCollateral(ctx context.Context, s *svc.ServiceContext, p WithdrawParams) (*Plan, error) {
	op, err := s.Resolver.WithdrawAndRedeem(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewWithdrawAndRedeemInstruction(s.ProgramID, &op.Accounts, &instruction.WithdrawAndRedeemArgs{
		CollateralAmount:      p.Amount,
		LtvMaxWithdrawalCheck: p.LtvCheck,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "withdraw_collateral", Instructions: ixs}, nil
}

func WithdrawCollateral(ctx context.Context, s *svc.ServiceContext, p WithdrawParams) (*submitter.Result, error) {
	plan, err := BuildWithdrawCollateral(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

func BuildBorrow(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*Plan, error) {
	op, err := s.Resolver.Borrow(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewBorrowObligationLiquidityInstruction(s.ProgramID, &op.Accounts, &instruction.LiquidityAmountArgs{
		LiquidityAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "borrow", Instructions: ixs}, nil
}

func Borrow(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*submitter.Result, error) {
	plan, err := BuildBorrow(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

func BuildRepay(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*Plan, error) {
	op, err := s.Resolver.Repay(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewRepayObligationLiquidityInstruction(s.ProgramID, &op.Accounts, &instruction.LiquidityAmountArgs{
		LiquidityAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "repay", Instructions: ixs}, nil
}

func Repay(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*submitter.Result, error) {
	plan, err := BuildRepay(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

// BuildAddCollateral 钱包中已有的 cToken 记入 obligation（deposit_obligation_collateral）
func BuildAddCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*Plan, error) {
	op, err := s.Resolver.DepositObligationCollateral(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewDepositObligationCollateralInstruction(s.ProgramID, &op.Accounts, &instruction.CollateralAmountArgs{
		CollateralAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "add_collateral", Instructions: ixs}, nil
}

func AddCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*submitter.Result, error) {
	plan, err := BuildAddCollateral(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

// BuildRemoveCollateral 抵押 cToken 取回钱包，不赎回（withdraw_obligation_collateral）
func BuildRemoveCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*Plan, error) {
	op, err := s.Resolver.WithdrawObligationCollateral(ctx, s.Signer.PublicKey(), p.Obligation, p.Reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewWithdrawObligationCollateralInstruction(s.ProgramID, &op.Accounts, &instruction.CollateralAmountArgs{
		CollateralAmount: p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs, err := withRefresh(s, op.Refresh, ix)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "remove_collateral", Instructions: ixs}, nil
}

func RemoveCollateral(ctx context.Context, s *svc.ServiceContext, p ObligationAmountParams) (*submitter.Result, error) {
	plan, err := BuildRemoveCollateral(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}
