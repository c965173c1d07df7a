package resolver

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/pkg/types"
)

// RemainingAccounts refresh_obligation / liquidate 的变长尾部账户
// 顺序：抵押 reserve，借款 reserve，referrer token state（每个借款 reserve 一个）
// 空地址直接跳过，不补位
func RemainingAccounts(programID types.Pubkey, obligation *state.ObligationSnapshot) ([]types.Pubkey, error) {
	out := make([]types.Pubkey, 0, len(obligation.Deposits)+2*len(obligation.Borrows))
	for _, d := range obligation.Deposits {
		if consts.IsUnset(d.Reserve) {
			continue
		}
		out = append(out, d.Reserve)
	}
	for _, b := range obligation.Borrows {
		if consts.IsUnset(b.Reserve) {
			continue
		}
		out = append(out, b.Reserve)
	}

	referrer, ok := obligation.Referrer.Get()
	if !ok {
		return out, nil
	}
	for _, b := range obligation.Borrows {
		if consts.IsUnset(b.Reserve) {
			continue
		}
		rts, err := pda.ReferrerTokenState(programID, referrer, b.Reserve)
		if err != nil {
			return nil, err
		}
		out = append(out, rts)
	}
	return out, nil
}
