package resolver

import (
	"context"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/types"
)

// ObligationOp 针对单个 reserve 的 obligation 操作解析结果
type ObligationOp[A any] struct {
	Obligation *state.ObligationSnapshot
	Reserve    *state.ReserveSnapshot
	// Refresh 同一笔交易中需前置的刷新指令
	Refresh  *RefreshPlan
	Accounts A
}

// loadObligationOp 拉取 obligation 与目标 reserve，校验同一市场并生成刷新计划
func loadObligationOp[A any](ctx context.Context, r *Resolver, owner, obligationAddr, reserveAddr types.Pubkey) (*ObligationOp[A], types.Pubkey, error) {
	obligation, err := r.fetchObligation(ctx, obligationAddr, owner)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	reserve, err := r.fetchReserve(ctx, reserveAddr)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	if err := sameMarket(obligation, reserve); err != nil {
		return nil, types.Pubkey{}, err
	}
	plan, err := r.refreshPlan(ctx, obligation, reserve)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	authority, err := r.marketAuthority(obligation.LendingMarket)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	return &ObligationOp[A]{Obligation: obligation, Reserve: reserve, Refresh: plan}, authority, nil
}

// DepositObligationCollateral 用户已有的 cToken 存入 obligation
func (r *Resolver) DepositObligationCollateral(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.DepositObligationCollateralAccounts], error) {
	op, _, err := loadObligationOp[instruction.DepositObligationCollateralAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(owner, op.Reserve.CollateralMint, consts.TokenProgram)
	if err != nil {
		return nil, err
	}
	op.Accounts = instruction.DepositObligationCollateralAccounts{
		Owner:                        owner,
		Obligation:                   op.Obligation.Address,
		LendingMarket:                op.Obligation.LendingMarket,
		DepositReserve:               op.Reserve.Address,
		ReserveDestinationCollateral: op.Reserve.CollateralSupplyVault,
		UserSourceCollateral:         source,
		TokenProgram:                 consts.TokenProgram,
	}
	return op, nil
}

// DepositAndCollateralize 流动性存入 reserve 并直接记入 obligation 抵押
func (r *Resolver) DepositAndCollateralize(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.DepositAndCollateralizeAccounts], error) {
	op, authority, err := loadObligationOp[instruction.DepositAndCollateralizeAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(owner, op.Reserve.LiquidityMint, op.Reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	op.Accounts = instruction.DepositAndCollateralizeAccounts{
		Owner:                                owner,
		Obligation:                           op.Obligation.Address,
		LendingMarket:                        op.Obligation.LendingMarket,
		LendingMarketAuthority:               authority,
		Reserve:                              op.Reserve.Address,
		ReserveLiquidityMint:                 op.Reserve.LiquidityMint,
		ReserveLiquiditySupply:               op.Reserve.LiquiditySupplyVault,
		ReserveCollateralMint:                op.Reserve.CollateralMint,
		ReserveDestinationDepositCollateral:  op.Reserve.CollateralSupplyVault,
		UserSourceLiquidity:                  source,
		PlaceholderUserDestinationCollateral: types.Absent(),
		CollateralTokenProgram:               consts.TokenProgram,
		LiquidityTokenProgram:                op.Reserve.LiquidityTokenProgram,
	}
	return op, nil
}

// WithdrawObligationCollateral 抵押 cToken 取回到用户 ATA
func (r *Resolver) WithdrawObligationCollateral(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.WithdrawObligationCollateralAccounts], error) {
	op, authority, err := loadObligationOp[instruction.WithdrawObligationCollateralAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	dest, err := userTokenAccount(owner, op.Reserve.CollateralMint, consts.TokenProgram)
	if err != nil {
		return nil, err
	}
	op.Accounts = instruction.WithdrawObligationCollateralAccounts{
		Owner:                     owner,
		Obligation:                op.Obligation.Address,
		LendingMarket:             op.Obligation.LendingMarket,
		LendingMarketAuthority:    authority,
		WithdrawReserve:           op.Reserve.Address,
		ReserveSourceCollateral:   op.Reserve.CollateralSupplyVault,
		UserDestinationCollateral: dest,
		TokenProgram:              consts.TokenProgram,
	}
	return op, nil
}

// WithdrawAndRedeem 取回抵押并赎回为流动性
func (r *Resolver) WithdrawAndRedeem(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.WithdrawAndRedeemAccounts], error) {
	op, authority, err := loadObligationOp[instruction.WithdrawAndRedeemAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	dest, err := userTokenAccount(owner, op.Reserve.LiquidityMint, op.Reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	op.Accounts = instruction.WithdrawAndRedeemAccounts{
		Owner:                                owner,
		Obligation:                           op.Obligation.Address,
		LendingMarket:                        op.Obligation.LendingMarket,
		LendingMarketAuthority:               authority,
		WithdrawReserve:                      op.Reserve.Address,
		ReserveLiquidityMint:                 op.Reserve.LiquidityMint,
		ReserveSourceCollateral:              op.Reserve.CollateralSupplyVault,
		ReserveCollateralMint:                op.Reserve.CollateralMint,
		ReserveLiquiditySupply:               op.Reserve.LiquiditySupplyVault,
		UserDestinationLiquidity:             dest,
		PlaceholderUserDestinationCollateral: types.Absent(),
		CollateralTokenProgram:               consts.TokenProgram,
		LiquidityTokenProgram:                op.Reserve.LiquidityTokenProgram,
	}
	return op, nil
}

// Borrow obligation 设置了 referrer 时带上 referrer token state
func (r *Resolver) Borrow(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.BorrowObligationLiquidityAccounts], error) {
	op, authority, err := loadObligationOp[instruction.BorrowObligationLiquidityAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	if consts.IsUnset(op.Reserve.LiquidityFeeVault) {
		return nil, missingFeeVault(op.Reserve)
	}
	dest, err := userTokenAccount(owner, op.Reserve.LiquidityMint, op.Reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	referrerState := types.Absent()
	if referrer, ok := op.Obligation.Referrer.Get(); ok {
		addr, err := pda.ReferrerTokenState(r.programID, referrer, op.Reserve.Address)
		if err != nil {
			return nil, err
		}
		referrerState = types.Present(addr)
	}
	op.Accounts = instruction.BorrowObligationLiquidityAccounts{
		Owner:                             owner,
		Obligation:                        op.Obligation.Address,
		LendingMarket:                     op.Obligation.LendingMarket,
		LendingMarketAuthority:            authority,
		BorrowReserve:                     op.Reserve.Address,
		BorrowReserveLiquidityMint:        op.Reserve.LiquidityMint,
		ReserveSourceLiquidity:            op.Reserve.LiquiditySupplyVault,
		BorrowReserveLiquidityFeeReceiver: op.Reserve.LiquidityFeeVault,
		UserDestinationLiquidity:          dest,
		ReferrerTokenState:                referrerState,
		TokenProgram:                      op.Reserve.LiquidityTokenProgram,
	}
	return op, nil
}

func (r *Resolver) Repay(ctx context.Context, owner, obligation, reserve types.Pubkey) (*ObligationOp[instruction.RepayObligationLiquidityAccounts], error) {
	op, _, err := loadObligationOp[instruction.RepayObligationLiquidityAccounts](ctx, r, owner, obligation, reserve)
	if err != nil {
		return nil, err
	}
	source, err := userTokenAccount(owner, op.Reserve.LiquidityMint, op.Reserve.LiquidityTokenProgram)
	if err != nil {
		return nil, err
	}
	op.Accounts = instruction.RepayObligationLiquidityAccounts{
		Owner:                       owner,
		Obligation:                  op.Obligation.Address,
		LendingMarket:               op.Obligation.LendingMarket,
		RepayReserve:                op.Reserve.Address,
		ReserveLiquidityMint:        op.Reserve.LiquidityMint,
		ReserveDestinationLiquidity: op.Reserve.LiquiditySupplyVault,
		UserSourceLiquidity:         source,
		TokenProgram:                op.Reserve.LiquidityTokenProgram,
	}
	return op, nil
}
