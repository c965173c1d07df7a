package operation

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/pkg/utils"
	"klend-client-sol/internal/svc"
)

func BuildRefreshReserve(ctx context.Context, s *svc.ServiceContext, reserve types.Pubkey) (*Plan, error) {
	accounts, err := s.Resolver.RefreshReserve(ctx, reserve)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewRefreshReserveInstruction(s.ProgramID, &accounts)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "refresh_reserve", Instructions: []instruction.Instruction{ix}}, nil
}

func RefreshReserve(ctx context.Context, s *svc.ServiceContext, reserve types.Pubkey) (*submitter.Result, error) {
	plan, err := BuildRefreshReserve(ctx, s, reserve)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

// BuildRefreshObligation 先刷新 obligation 涉及的全部 reserve，再 refresh_obligation
func BuildRefreshObligation(ctx context.Context, s *svc.ServiceContext, obligation types.Pubkey) (*Plan, error) {
	plan, _, err := s.Resolver.RefreshObligationWithReserves(ctx, obligation)
	if err != nil {
		return nil, err
	}
	ixs, err := refreshInstructions(s, plan)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "refresh_obligation", Instructions: ixs}, nil
}

func RefreshObligation(ctx context.Context, s *svc.ServiceContext, obligation types.Pubkey) (*submitter.Result, error) {
	plan, err := BuildRefreshObligation(ctx, s, obligation)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

type BatchResult struct {
	Obligation types.Pubkey      `yaml:"obligation"`
	Result     *submitter.Result `yaml:"result,omitempty"`
	Error      string            `yaml:"error,omitempty"`
	Err        error             `yaml:"-"`
}

// RefreshObligations 互不相关的 obligation 各自独立成交易，通过有界协程池并发提交
func RefreshObligations(ctx context.Context, s *svc.ServiceContext, obligations []types.Pubkey) []BatchResult {
	workers := s.Config.Batch.Workers
	if workers <= 0 {
		workers = 1
	}
	results := utils.ParallelMap(obligations, workers, func(obligation types.Pubkey) BatchResult {
		res, err := RefreshObligation(ctx, s, obligation)
		out := BatchResult{Obligation: obligation, Result: res, Err: err}
		if err != nil {
			out.Error = err.Error()
		}
		return out
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Infof("[Operation] refresh obligations: total=%d, failed=%d", len(results), failed)
	return results
}
