package instruction

import (
	"klend-client-sol/internal/pkg/types"
)

// RefreshReserveAccounts 四个预言机槽位均为可选
type RefreshReserveAccounts struct {
	Reserve                types.Pubkey
	LendingMarket          types.Pubkey
	PythOracle             types.OptionalPubkey
	SwitchboardPriceOracle types.OptionalPubkey
	SwitchboardTwapOracle  types.OptionalPubkey
	ScopePrices            types.OptionalPubkey
}

func NewRefreshReserveInstruction(programID types.Pubkey, accounts *RefreshReserveAccounts) (Instruction, error) {
	metas := newAccountList(programID, 6).
		writable(accounts.Reserve).
		readonly(accounts.LendingMarket).
		optional(accounts.PythOracle, false).
		optional(accounts.SwitchboardPriceOracle, false).
		optional(accounts.SwitchboardTwapOracle, false).
		optional(accounts.ScopePrices, false).
		build()
	return newInstruction(programID, metas, RefreshReserveDiscriminator, nil)
}

// RefreshObligationAccounts Remaining 顺序：抵押 reserve，借款 reserve，referrer token state
type RefreshObligationAccounts struct {
	LendingMarket types.Pubkey
	Obligation    types.Pubkey
	Remaining     []types.Pubkey
}

func NewRefreshObligationInstruction(programID types.Pubkey, accounts *RefreshObligationAccounts, args *RefreshObligationArgs) (Instruction, error) {
	if err := args.validate(); err != nil {
		return Instruction{}, err
	}
	metas := newAccountList(programID, 2+len(accounts.Remaining)).
		readonly(accounts.LendingMarket).
		writable(accounts.Obligation).
		remaining(accounts.Remaining).
		build()
	return newInstruction(programID, metas, RefreshObligationDiscriminator, *args)
}
