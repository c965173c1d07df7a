package operation

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/config"
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/signer"
	"klend-client-sol/internal/svc"
)

var programID = consts.KlendProgram

func key(t *testing.T) types.Pubkey {
	t.Helper()
	var p types.Pubkey
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}

type fakeReader struct {
	mu          sync.Mutex
	reserves    map[types.Pubkey]*state.ReserveSnapshot
	obligations map[types.Pubkey]*state.ObligationSnapshot
	markets     map[types.Pubkey]*state.LendingMarketSnapshot
	existing    map[types.Pubkey]bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		reserves:    map[types.Pubkey]*state.ReserveSnapshot{},
		obligations: map[types.Pubkey]*state.ObligationSnapshot{},
		markets:     map[types.Pubkey]*state.LendingMarketSnapshot{},
		existing:    map[types.Pubkey]bool{},
	}
}

func (f *fakeReader) LendingMarket(_ context.Context, addr types.Pubkey) (*state.LendingMarketSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.markets[addr]; ok {
		return m, nil
	}
	return nil, errs.ErrAccountNotFound
}

func (f *fakeReader) Reserve(_ context.Context, addr types.Pubkey) (*state.ReserveSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reserves[addr]; ok {
		return r, nil
	}
	return nil, errs.ErrAccountNotFound
}

func (f *fakeReader) Reserves(ctx context.Context, addrs []types.Pubkey) ([]*state.ReserveSnapshot, error) {
	out := make([]*state.ReserveSnapshot, 0, len(addrs))
	for _, a := range addrs {
		r, err := f.Reserve(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReader) Obligation(_ context.Context, addr types.Pubkey) (*state.ObligationSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.obligations[addr]; ok {
		return o, nil
	}
	return nil, errs.ErrAccountNotFound
}

func (f *fakeReader) Exists(_ context.Context, addr types.Pubkey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[addr], nil
}

func (f *fakeReader) addReserve(t *testing.T, market types.Pubkey) *state.ReserveSnapshot {
	r := &state.ReserveSnapshot{
		Address:               key(t),
		LendingMarket:         market,
		LiquidityMint:         key(t),
		LiquiditySupplyVault:  key(t),
		LiquidityFeeVault:     key(t),
		LiquidityTokenProgram: consts.TokenProgram,
		CollateralMint:        key(t),
		CollateralSupplyVault: key(t),
		PythOracle:            types.Present(key(t)),
	}
	f.reserves[r.Address] = r
	return r
}

func (f *fakeReader) addObligation(t *testing.T, owner, market types.Pubkey, deposits, borrows []types.Pubkey) *state.ObligationSnapshot {
	o := &state.ObligationSnapshot{Address: key(t), Owner: owner, LendingMarket: market}
	for _, d := range deposits {
		o.Deposits = append(o.Deposits, state.ObligationDeposit{Reserve: d})
	}
	for _, b := range borrows {
		o.Borrows = append(o.Borrows, state.ObligationBorrow{Reserve: b})
	}
	f.obligations[o.Address] = o
	return o
}

// instantTransport 发送总是成功，状态直接返回 confirmed
type instantTransport struct {
	mu      sync.Mutex
	sent    []sdktypes.Transaction
	sendErr error
}

func (f *instantTransport) GetLatestBlockhash(context.Context) (string, error) {
	return consts.KlendProgramStr, nil
}

func (f *instantTransport) SendTransaction(_ context.Context, tx sdktypes.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, tx)
	return "", nil
}

func (f *instantTransport) GetSignatureStatus(context.Context, string) (*submitter.SignatureStatus, error) {
	return &submitter.SignatureStatus{Slot: 1, Commitment: submitter.CommitmentFinalized}, nil
}

func (f *instantTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fixedRent uint64

func (r fixedRent) MinimumBalanceForRentExemption(context.Context, uint64) (uint64, error) {
	return uint64(r), nil
}

type env struct {
	reader    *fakeReader
	transport *instantTransport
	signer    *signer.Keypair
	svc       *svc.ServiceContext
}

func newEnv(t *testing.T) *env {
	t.Helper()
	var c config.ClientConfig
	c.Submit = config.SubmitConfig{
		MaxSendAttempts:  2,
		InitialBackoffMs: 1,
		MaxBackoffMs:     2,
		PollIntervalMs:   1,
		ConfirmTimeoutMs: 1000,
		Commitment:       string(submitter.CommitmentConfirmed),
	}
	c.Batch.Workers = 4

	e := &env{
		reader:    newFakeReader(),
		transport: &instantTransport{},
		signer:    signer.NewEphemeral(),
	}
	e.svc = svc.Assemble(c, programID, e.reader, e.transport, fixedRent(1_000_000), e.signer)
	return e
}

func (e *env) owner() types.Pubkey {
	return e.signer.PublicKey()
}

// names 把指令翻译成可读名称，非 klend 指令按程序归类
func names(plan *Plan) []string {
	return instructionNames(plan.Instructions)
}

func instructionNames(ixs []instruction.Instruction) []string {
	out := make([]string, 0, len(ixs))
	for _, ix := range ixs {
		switch ix.ProgramID {
		case programID:
			out = append(out, instruction.Name(ix.Data))
		case consts.SystemProgram:
			out = append(out, "system")
		case consts.ComputeBudgetProgram:
			out = append(out, "compute_budget")
		default:
			out = append(out, ix.ProgramID.String())
		}
	}
	return out
}
