package resolver

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

func (r *Resolver) RefreshReserve(ctx context.Context, reserve types.Pubkey) (instruction.RefreshReserveAccounts, error) {
	snap, err := r.reader.Reserve(ctx, reserve)
	if err != nil {
		return instruction.RefreshReserveAccounts{}, err
	}
	return RefreshReserveAccounts(snap), nil
}

func (r *Resolver) RefreshObligation(ctx context.Context, obligation types.Pubkey) (instruction.RefreshObligationAccounts, *state.ObligationSnapshot, error) {
	snap, err := r.fetchObligation(ctx, obligation, types.Pubkey{})
	if err != nil {
		return instruction.RefreshObligationAccounts{}, nil, err
	}
	accounts, err := r.refreshObligationAccounts(snap)
	return accounts, snap, err
}

func (r *Resolver) refreshObligationAccounts(obligation *state.ObligationSnapshot) (instruction.RefreshObligationAccounts, error) {
	remaining, err := RemainingAccounts(r.programID, obligation)
	if err != nil {
		return instruction.RefreshObligationAccounts{}, err
	}
	return instruction.RefreshObligationAccounts{
		LendingMarket: obligation.LendingMarket,
		Obligation:    obligation.Address,
		Remaining:     remaining,
	}, nil
}

// RefreshObligationWithReserves 完整刷新计划：obligation 涉及的全部 reserve + refresh_obligation
func (r *Resolver) RefreshObligationWithReserves(ctx context.Context, obligation types.Pubkey) (*RefreshPlan, *state.ObligationSnapshot, error) {
	snap, err := r.fetchObligation(ctx, obligation, types.Pubkey{})
	if err != nil {
		return nil, nil, err
	}
	plan, err := r.refreshPlan(ctx, snap)
	if err != nil {
		return nil, nil, err
	}
	return plan, snap, nil
}

// refreshPlan extra 为本次操作涉及但尚未进入 obligation 的 reserve，排在最后
func (r *Resolver) refreshPlan(ctx context.Context, obligation *state.ObligationSnapshot, extra ...*state.ReserveSnapshot) (*RefreshPlan, error) {
	known := make(map[types.Pubkey]*state.ReserveSnapshot, len(extra))
	for _, reserve := range extra {
		known[reserve.Address] = reserve
	}

	var missing []types.Pubkey
	for _, addr := range obligation.Reserves() {
		if _, ok := known[addr]; !ok {
			missing = append(missing, addr)
		}
	}
	fetched, err := r.reader.Reserves(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, reserve := range fetched {
		known[reserve.Address] = reserve
	}

	plan := &RefreshPlan{}
	added := make(map[types.Pubkey]struct{}, len(known))
	appendReserve := func(reserve *state.ReserveSnapshot) {
		if _, ok := added[reserve.Address]; ok {
			return
		}
		added[reserve.Address] = struct{}{}
		plan.Reserves = append(plan.Reserves, RefreshReserveAccounts(reserve))
	}
	for _, addr := range obligation.Reserves() {
		appendReserve(known[addr])
	}
	for _, reserve := range extra {
		appendReserve(reserve)
	}

	plan.Obligation, err = r.refreshObligationAccounts(obligation)
	if err != nil {
		return nil, err
	}
	logger.Debugf("[AccountResolver] refresh plan: obligation=%s, reserves=%d, remaining=%d",
		obligation.Address, len(plan.Reserves), len(plan.Obligation.Remaining))
	return plan, nil
}
