package state

import (
	"context"
	"fmt"

	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

// AccountFetcher RPC 传输层需要提供的读能力
type AccountFetcher interface {
	// GetAccount 账户不存在时返回 errs.ErrAccountNotFound
	GetAccount(ctx context.Context, addr types.Pubkey) (*Account, error)
	// GetMultipleAccounts 结果与入参一一对应，不存在的账户为 nil
	GetMultipleAccounts(ctx context.Context, addrs []types.Pubkey) ([]*Account, error)
}

// Reader 拉取并解码 klend 账户，不持有任何缓存
type Reader struct {
	fetcher   AccountFetcher
	programID types.Pubkey
}

func NewReader(fetcher AccountFetcher, programID types.Pubkey) *Reader {
	return &Reader{fetcher: fetcher, programID: programID}
}

func (r *Reader) ProgramID() types.Pubkey {
	return r.programID
}

func (r *Reader) LendingMarket(ctx context.Context, addr types.Pubkey) (*LendingMarketSnapshot, error) {
	acc, err := r.fetchOwned(ctx, "LendingMarket", addr)
	if err != nil {
		return nil, err
	}
	return DecodeLendingMarket(addr, acc.Data)
}

func (r *Reader) Reserve(ctx context.Context, addr types.Pubkey) (*ReserveSnapshot, error) {
	acc, err := r.fetchOwned(ctx, "Reserve", addr)
	if err != nil {
		return nil, err
	}
	snap, err := DecodeReserve(addr, acc.Data)
	if err != nil {
		return nil, fmt.Errorf("reserve %s: %w", addr, err)
	}
	return snap, nil
}

func (r *Reader) Obligation(ctx context.Context, addr types.Pubkey) (*ObligationSnapshot, error) {
	acc, err := r.fetchOwned(ctx, "Obligation", addr)
	if err != nil {
		return nil, err
	}
	snap, err := DecodeObligation(addr, acc.Data)
	if err != nil {
		return nil, fmt.Errorf("obligation %s: %w", addr, err)
	}
	return snap, nil
}

// Reserves 一次 GetMultipleAccounts 拉取多个 reserve，任一缺失即失败
func (r *Reader) Reserves(ctx context.Context, addrs []types.Pubkey) ([]*ReserveSnapshot, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	accounts, err := r.fetcher.GetMultipleAccounts(ctx, addrs)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(addrs) {
		return nil, fmt.Errorf("返回账户数与请求不一致: got=%d want=%d", len(accounts), len(addrs))
	}

	out := make([]*ReserveSnapshot, 0, len(addrs))
	for i, acc := range accounts {
		if acc == nil || len(acc.Data) == 0 {
			return nil, fmt.Errorf("reserve %s: %w", addrs[i], errs.ErrAccountNotFound)
		}
		if err := r.checkOwner("Reserve", addrs[i], acc); err != nil {
			return nil, err
		}
		snap, err := DecodeReserve(addrs[i], acc.Data)
		if err != nil {
			return nil, fmt.Errorf("reserve %s: %w", addrs[i], err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// Exists 只判断账户是否存在（如 user metadata 是否已初始化）
func (r *Reader) Exists(ctx context.Context, addr types.Pubkey) (bool, error) {
	acc, err := r.fetcher.GetAccount(ctx, addr)
	if err != nil {
		if errs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return acc != nil && len(acc.Data) > 0, nil
}

func (r *Reader) fetchOwned(ctx context.Context, name string, addr types.Pubkey) (*Account, error) {
	acc, err := r.fetcher.GetAccount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, addr, err)
	}
	if acc == nil || len(acc.Data) == 0 {
		return nil, fmt.Errorf("%s %s: %w", name, addr, errs.ErrAccountNotFound)
	}
	if err := r.checkOwner(name, addr, acc); err != nil {
		return nil, err
	}
	logger.Debugf("[StateReader] 拉取 %s 成功: address=%s, size=%d", name, addr, len(acc.Data))
	return acc, nil
}

func (r *Reader) checkOwner(name string, addr types.Pubkey, acc *Account) error {
	if acc.Owner != r.programID {
		return fmt.Errorf("%w: %s %s owned by %s, want %s", errs.ErrDecode, name, addr, acc.Owner, r.programID)
	}
	return nil
}
