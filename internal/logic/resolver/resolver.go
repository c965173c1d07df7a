package resolver

import (
	"context"
	"fmt"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

// StateReader 解析账户时依赖的快照读取能力（state.Reader 实现）
type StateReader interface {
	LendingMarket(ctx context.Context, addr types.Pubkey) (*state.LendingMarketSnapshot, error)
	Reserve(ctx context.Context, addr types.Pubkey) (*state.ReserveSnapshot, error)
	Reserves(ctx context.Context, addrs []types.Pubkey) ([]*state.ReserveSnapshot, error)
	Obligation(ctx context.Context, addr types.Pubkey) (*state.ObligationSnapshot, error)
}

// Resolver 为每个操作生成按程序声明顺序排列的账户集合
// 快照每次调用都重新拉取，不在 Resolver 上保存任何状态
type Resolver struct {
	reader    StateReader
	programID types.Pubkey
}

func New(reader StateReader, programID types.Pubkey) *Resolver {
	return &Resolver{reader: reader, programID: programID}
}

func (r *Resolver) ProgramID() types.Pubkey {
	return r.programID
}

// RefreshPlan 需要最新状态的操作在同一笔交易里先执行的刷新指令
type RefreshPlan struct {
	Reserves   []instruction.RefreshReserveAccounts
	Obligation instruction.RefreshObligationAccounts
}

func (r *Resolver) marketAuthority(market types.Pubkey) (types.Pubkey, error) {
	return pda.LendingMarketAuthority(r.programID, market)
}

// userTokenAccount 用户的 ATA，默认已存在，这里只推导地址
func userTokenAccount(owner, mint, tokenProgram types.Pubkey) (types.Pubkey, error) {
	return pda.AssociatedTokenAccount(owner, mint, tokenProgram)
}

// fetchReserve 拉取 reserve 并检查后续推导依赖的字段
func (r *Resolver) fetchReserve(ctx context.Context, addr types.Pubkey) (*state.ReserveSnapshot, error) {
	reserve, err := r.reader.Reserve(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := checkReserve(reserve); err != nil {
		return nil, err
	}
	return reserve, nil
}

func checkReserve(reserve *state.ReserveSnapshot) error {
	switch {
	case consts.IsUnset(reserve.LendingMarket):
		return errs.MissingDependency("reserve %s has no lending market", reserve.Address)
	case consts.IsUnset(reserve.LiquidityMint):
		return errs.MissingDependency("reserve %s liquidity mint not populated", reserve.Address)
	case consts.IsUnset(reserve.LiquiditySupplyVault):
		return errs.MissingDependency("reserve %s liquidity supply vault not populated", reserve.Address)
	case consts.IsUnset(reserve.CollateralMint):
		return errs.MissingDependency("reserve %s collateral mint not populated", reserve.Address)
	case reserve.LiquidityTokenProgram.IsZero():
		return errs.MissingDependency("reserve %s liquidity token program not populated", reserve.Address)
	}
	return nil
}

// fetchObligation 拉取 obligation，并校验 owner（liquidate 传入 zero 跳过校验）
func (r *Resolver) fetchObligation(ctx context.Context, addr, owner types.Pubkey) (*state.ObligationSnapshot, error) {
	obligation, err := r.reader.Obligation(ctx, addr)
	if err != nil {
		return nil, err
	}
	if consts.IsUnset(obligation.LendingMarket) {
		return nil, errs.MissingDependency("obligation %s has no lending market", addr)
	}
	if !owner.IsZero() && obligation.Owner != owner {
		return nil, errs.InvalidArgument("obligation %s owned by %s, signer is %s", addr, obligation.Owner, owner)
	}
	return obligation, nil
}

func sameMarket(obligation *state.ObligationSnapshot, reserves ...*state.ReserveSnapshot) error {
	for _, reserve := range reserves {
		if reserve.LendingMarket != obligation.LendingMarket {
			return fmt.Errorf("%w: reserve %s belongs to market %s, obligation %s belongs to %s",
				errs.ErrMissingDependency, reserve.Address, reserve.LendingMarket, obligation.Address, obligation.LendingMarket)
		}
	}
	return nil
}

// RefreshReserveAccounts 由已拉取的快照生成 refresh_reserve 账户，预言机槽位直接取自快照的 Absent/Present
func RefreshReserveAccounts(reserve *state.ReserveSnapshot) instruction.RefreshReserveAccounts {
	return instruction.RefreshReserveAccounts{
		Reserve:                reserve.Address,
		LendingMarket:          reserve.LendingMarket,
		PythOracle:             reserve.PythOracle,
		SwitchboardPriceOracle: reserve.SwitchboardPriceOracle,
		SwitchboardTwapOracle:  reserve.SwitchboardTwapOracle,
		ScopePrices:            reserve.ScopePrices,
	}
}
