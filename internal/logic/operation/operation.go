package operation

import (
	"context"
	"fmt"

	"klend-client-sol/internal/logic/fee"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/resolver"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/svc"
)

// Plan 一笔待提交交易：指令（不含 compute budget）与除 fee payer 外的签名者
type Plan struct {
	Name         string
	Instructions []instruction.Instruction
	Signers      []submitter.Signer
}

// execute 注入 compute budget 后交给 submitter
func execute(ctx context.Context, s *svc.ServiceContext, plan *Plan) (*submitter.Result, error) {
	if s.Signer == nil {
		return nil, errs.InvalidArgument("%s: no signer configured", plan.Name)
	}
	ixs, err := withComputeBudget(s, plan.Instructions)
	if err != nil {
		return nil, err
	}
	logger.Infof("[Operation] %s: instructions=%d, signers=%d", plan.Name, len(ixs), 1+len(plan.Signers))

	res, err := s.Submitter.Submit(ctx, submitter.Request{
		Name:         plan.Name,
		Instructions: ixs,
		FeePayer:     s.Signer,
		Signers:      plan.Signers,
	})
	if err != nil {
		return res, fmt.Errorf("%s: %w", plan.Name, err)
	}
	return res, nil
}

func withComputeBudget(s *svc.ServiceContext, ixs []instruction.Instruction) ([]instruction.Instruction, error) {
	cb := s.Config.ComputeBudget
	budget, err := fee.ComputeBudgetInstructions(cb.UnitLimit, cb.UnitPrice)
	if err != nil {
		return nil, err
	}
	if len(budget) == 0 {
		return ixs, nil
	}
	return append(budget, ixs...), nil
}

// refreshInstructions refresh_reserve（obligation 的全部 reserve + 本次目标）之后紧跟 refresh_obligation
func refreshInstructions(s *svc.ServiceContext, plan *resolver.RefreshPlan) ([]instruction.Instruction, error) {
	ixs := make([]instruction.Instruction, 0, len(plan.Reserves)+1)
	for i := range plan.Reserves {
		ix, err := instruction.NewRefreshReserveInstruction(s.ProgramID, &plan.Reserves[i])
		if err != nil {
			return nil, err
		}
		ixs = append(ixs, ix)
	}
	ix, err := instruction.NewRefreshObligationInstruction(s.ProgramID, &plan.Obligation, &instruction.RefreshObligationArgs{
		MaxReservesAsCollateralCheck: instruction.MaxReservesAsCollateralCheckPerform,
	})
	if err != nil {
		return nil, err
	}
	return append(ixs, ix), nil
}

// withRefresh 刷新指令在前，业务指令在后
func withRefresh(s *svc.ServiceContext, refresh *resolver.RefreshPlan, ix instruction.Instruction) ([]instruction.Instruction, error) {
	ixs, err := refreshInstructions(s, refresh)
	if err != nil {
		return nil, err
	}
	return append(ixs, ix), nil
}
