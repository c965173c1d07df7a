package state

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/anchor"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

func newKey(t *testing.T) types.Pubkey {
	t.Helper()
	var p types.Pubkey
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}

// encode 序列化布局并补齐到账户真实长度
func encode(t *testing.T, disc anchor.Discriminator, size int, layout any) []byte {
	t.Helper()
	body, err := borsh.Serialize(layout)
	require.NoError(t, err)
	require.LessOrEqual(t, len(body), size)

	data := make([]byte, anchor.DiscriminatorLen+size)
	copy(data, disc[:])
	copy(data[anchor.DiscriminatorLen:], body)
	return data
}

func encodeReserve(t *testing.T, layout reserveLayout) []byte {
	return encode(t, ReserveDiscriminator, consts.ReserveSize, layout)
}

func encodeObligation(t *testing.T, layout obligationLayout) []byte {
	return encode(t, ObligationDiscriminator, consts.ObligationSize, layout)
}

func encodeLendingMarket(t *testing.T, layout lendingMarketLayout) []byte {
	return encode(t, LendingMarketDiscriminator, consts.LendingMarketSize, layout)
}

type fakeFetcher struct {
	accounts map[types.Pubkey]*Account
	calls    int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{accounts: make(map[types.Pubkey]*Account)}
}

func (f *fakeFetcher) put(addr, owner types.Pubkey, data []byte) {
	f.accounts[addr] = &Account{Owner: owner, Lamports: 1, Data: data}
}

func (f *fakeFetcher) GetAccount(_ context.Context, addr types.Pubkey) (*Account, error) {
	f.calls++
	acc, ok := f.accounts[addr]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return acc, nil
}

func (f *fakeFetcher) GetMultipleAccounts(_ context.Context, addrs []types.Pubkey) ([]*Account, error) {
	f.calls++
	out := make([]*Account, len(addrs))
	for i, addr := range addrs {
		out[i] = f.accounts[addr]
	}
	return out, nil
}
