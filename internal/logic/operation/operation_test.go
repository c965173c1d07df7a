package operation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/signer"
)

func TestBuildInitLendingMarket(t *testing.T) {
	e := newEnv(t)
	market := signer.NewEphemeral()

	plan, err := BuildInitLendingMarket(context.Background(), e.svc, InitLendingMarketParams{QuoteCurrency: "USD"}, market)
	require.NoError(t, err)
	assert.Equal(t, []string{"system", "init_lending_market"}, names(plan))
	require.Len(t, plan.Signers, 1)
	assert.Equal(t, market.PublicKey(), plan.Signers[0].PublicKey())

	// create_account 的新账户必须签名且可写
	create := plan.Instructions[0]
	require.Len(t, create.Accounts, 2)
	assert.Equal(t, e.owner(), create.Accounts[0].PubKey)
	assert.Equal(t, market.PublicKey(), create.Accounts[1].PubKey)
	assert.True(t, create.Accounts[1].IsSigner)

	args, err := instruction.DecodeInitLendingMarketArgs(plan.Instructions[1].Data)
	require.NoError(t, err)
	assert.Equal(t, "USD", string(args.QuoteCurrency[:3]))

	_, err = BuildInitLendingMarket(context.Background(), e.svc, InitLendingMarketParams{
		QuoteCurrency: "a quote currency name that is way too long",
	}, market)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestInitLendingMarket_Submits(t *testing.T) {
	e := newEnv(t)
	res, err := InitLendingMarket(context.Background(), e.svc, InitLendingMarketParams{QuoteCurrency: "USD"})
	require.NoError(t, err)
	assert.False(t, res.LendingMarket.IsZero())
	require.NotNil(t, res.Result)
	assert.True(t, res.Result.Confirmed)

	// fee payer + 新市场账户
	require.Equal(t, 1, e.transport.count())
	assert.Len(t, e.transport.sent[0].Signatures, 2)
}

func TestBuildInitReserve(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	e.reader.markets[market] = nil
	mint := key(t)
	reserve := signer.NewEphemeral()

	plan, err := BuildInitReserve(context.Background(), e.svc, InitReserveParams{LendingMarket: market, LiquidityMint: mint}, reserve)
	require.NoError(t, err)
	assert.Equal(t, []string{"system", "init_reserve"}, names(plan))

	supply, err := pda.ReserveLiquiditySupply(programID, market, mint)
	require.NoError(t, err)
	var found bool
	for _, m := range plan.Instructions[1].Accounts {
		if m.PubKey == supply {
			found = true
			assert.True(t, m.IsWritable)
		}
	}
	assert.True(t, found)
}

func TestBuildInitObligation_CreatesUserMetadataWhenMissing(t *testing.T) {
	e := newEnv(t)
	market := key(t)

	plan, obligation, err := BuildInitObligation(context.Background(), e.svc, InitObligationParams{LendingMarket: market})
	require.NoError(t, err)
	assert.Equal(t, []string{"init_user_metadata", "init_obligation"}, names(plan))

	expected, err := pda.Obligation(programID, 0, 0, e.owner(), market, types.Pubkey{}, types.Pubkey{})
	require.NoError(t, err)
	assert.Equal(t, expected, obligation)

	metadata, err := pda.UserMetadata(programID, e.owner())
	require.NoError(t, err)
	e.reader.existing[metadata] = true

	plan, _, err = BuildInitObligation(context.Background(), e.svc, InitObligationParams{LendingMarket: market})
	require.NoError(t, err)
	assert.Equal(t, []string{"init_obligation"}, names(plan))
}

func TestBuildDepositReserveLiquidity(t *testing.T) {
	e := newEnv(t)
	reserve := e.reader.addReserve(t, key(t))

	plan, err := BuildDepositReserveLiquidity(context.Background(), e.svc, ReserveAmountParams{Reserve: reserve.Address, Amount: 1_000})
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve", "deposit_reserve_liquidity"}, names(plan))

	amount, err := instruction.DecodeLiquidityAmountArgs(instruction.DepositReserveLiquidityDiscriminator, plan.Instructions[1].Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), amount.LiquidityAmount)
}

func TestBuildRedeemCollateral(t *testing.T) {
	e := newEnv(t)
	reserve := e.reader.addReserve(t, key(t))

	plan, err := BuildRedeemCollateral(context.Background(), e.svc, ReserveAmountParams{Reserve: reserve.Address, Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve", "redeem_reserve_collateral"}, names(plan))
}

func TestBuildObligationOps_RefreshOrder(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	sol := e.reader.addReserve(t, market)
	usdc := e.reader.addReserve(t, market)
	obligation := e.reader.addObligation(t, e.owner(), market, []types.Pubkey{sol.Address}, []types.Pubkey{usdc.Address})
	ctx := context.Background()
	p := ObligationAmountParams{Obligation: obligation.Address, Reserve: usdc.Address, Amount: 10}

	cases := []struct {
		name  string
		build func() (*Plan, error)
		last  string
	}{
		{"borrow", func() (*Plan, error) { return BuildBorrow(ctx, e.svc, p) }, "borrow_obligation_liquidity"},
		{"repay", func() (*Plan, error) { return BuildRepay(ctx, e.svc, p) }, "repay_obligation_liquidity"},
		{"deposit", func() (*Plan, error) { return BuildDepositCollateral(ctx, e.svc, p) }, "deposit_reserve_liquidity_and_obligation_collateral"},
		{"withdraw", func() (*Plan, error) {
			return BuildWithdrawCollateral(ctx, e.svc, WithdrawParams{ObligationAmountParams: p})
		}, "withdraw_obligation_collateral_and_redeem_reserve_collateral"},
		{"add", func() (*Plan, error) { return BuildAddCollateral(ctx, e.svc, p) }, "deposit_obligation_collateral"},
		{"remove", func() (*Plan, error) { return BuildRemoveCollateral(ctx, e.svc, p) }, "withdraw_obligation_collateral"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := tc.build()
			require.NoError(t, err)
			// obligation 内的 reserve 去重后各刷新一次，然后 refresh_obligation，最后业务指令
			assert.Equal(t, []string{"refresh_reserve", "refresh_reserve", "refresh_obligation", tc.last}, names(plan))
			assert.Equal(t, sol.Address, plan.Instructions[0].Accounts[0].PubKey)
			assert.Equal(t, usdc.Address, plan.Instructions[1].Accounts[0].PubKey)
		})
	}
}

func TestBuildBorrow_NewReserveRefreshedLast(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	sol := e.reader.addReserve(t, market)
	usdc := e.reader.addReserve(t, market)
	obligation := e.reader.addObligation(t, e.owner(), market, []types.Pubkey{sol.Address}, nil)

	plan, err := BuildBorrow(context.Background(), e.svc, ObligationAmountParams{Obligation: obligation.Address, Reserve: usdc.Address, Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve", "refresh_reserve", "refresh_obligation", "borrow_obligation_liquidity"}, names(plan))
	assert.Equal(t, usdc.Address, plan.Instructions[1].Accounts[0].PubKey)

	// refresh_obligation 的 remaining 只包含 obligation 已有的 reserve
	refresh := plan.Instructions[2]
	require.Len(t, refresh.Accounts, 3)
	assert.Equal(t, sol.Address, refresh.Accounts[2].PubKey)
	assert.False(t, refresh.Accounts[2].IsWritable)
}

func TestBuildBorrow_WrongOwner(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	usdc := e.reader.addReserve(t, market)
	obligation := e.reader.addObligation(t, key(t), market, nil, nil)

	_, err := BuildBorrow(context.Background(), e.svc, ObligationAmountParams{Obligation: obligation.Address, Reserve: usdc.Address})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBuildLiquidate(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	sol := e.reader.addReserve(t, market)
	usdc := e.reader.addReserve(t, market)
	obligation := e.reader.addObligation(t, key(t), market, []types.Pubkey{sol.Address}, []types.Pubkey{usdc.Address})

	plan, err := BuildLiquidate(context.Background(), e.svc, LiquidateParams{
		Obligation:      obligation.Address,
		RepayReserve:    usdc.Address,
		WithdrawReserve: sol.Address,
		LiquidityAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve", "refresh_reserve", "refresh_obligation", "liquidate_obligation_and_redeem_reserve_collateral"}, names(plan))

	args, err := instruction.DecodeLiquidateArgs(plan.Instructions[3].Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), args.LiquidityAmount)

	_, err = BuildLiquidate(context.Background(), e.svc, LiquidateParams{
		Obligation:            obligation.Address,
		RepayReserve:          usdc.Address,
		WithdrawReserve:       sol.Address,
		MaxLtvOverridePercent: 101,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBuildRefreshObligation(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	sol := e.reader.addReserve(t, market)
	obligation := e.reader.addObligation(t, key(t), market, []types.Pubkey{sol.Address}, []types.Pubkey{sol.Address})

	plan, err := BuildRefreshObligation(context.Background(), e.svc, obligation.Address)
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve", "refresh_obligation"}, names(plan))

	plan, err = BuildRefreshReserve(context.Background(), e.svc, sol.Address)
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh_reserve"}, names(plan))
}

func TestComputeBudgetInjected(t *testing.T) {
	e := newEnv(t)
	e.svc.Config.ComputeBudget.UnitLimit = 300_000
	e.svc.Config.ComputeBudget.UnitPrice = 5_000
	reserve := e.reader.addReserve(t, key(t))

	plan, err := BuildRefreshReserve(context.Background(), e.svc, reserve.Address)
	require.NoError(t, err)
	ixs, err := withComputeBudget(e.svc, plan.Instructions)
	require.NoError(t, err)
	assert.Equal(t, []string{"compute_budget", "compute_budget", "refresh_reserve"}, instructionNames(ixs))

	e.svc.Config.ComputeBudget.UnitLimit = consts.MaxComputeUnitLimit + 1
	_, err = RefreshReserve(context.Background(), e.svc, reserve.Address)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Equal(t, 0, e.transport.count())
}

func TestRefreshObligations_Batch(t *testing.T) {
	e := newEnv(t)
	market := key(t)
	sol := e.reader.addReserve(t, market)

	var obligations []types.Pubkey
	for i := 0; i < 6; i++ {
		o := e.reader.addObligation(t, key(t), market, []types.Pubkey{sol.Address}, nil)
		obligations = append(obligations, o.Address)
	}
	missing := key(t)
	obligations = append(obligations, missing)

	results := RefreshObligations(context.Background(), e.svc, obligations)
	require.Len(t, results, 7)
	for i, r := range results[:6] {
		assert.Equal(t, obligations[i], r.Obligation)
		require.NoError(t, r.Err)
		assert.Equal(t, submitter.StateConfirmed, r.Result.State)
	}
	assert.Equal(t, missing, results[6].Obligation)
	assert.ErrorIs(t, results[6].Err, errs.ErrAccountNotFound)
	assert.NotEmpty(t, results[6].Error)
	assert.Equal(t, 6, e.transport.count())
}

func TestExecute_PropagatesRejection(t *testing.T) {
	e := newEnv(t)
	e.transport.sendErr = errs.Rejected("", "custom program error: 0x1")
	reserve := e.reader.addReserve(t, key(t))

	res, err := RefreshReserve(context.Background(), e.svc, reserve.Address)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRejected))
	require.NotNil(t, res)
	assert.Equal(t, submitter.StateRejected, res.State)
}

func TestEstimateFee(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, uint64(200_005_000), EstimateFee(e.svc, 1).Lamports)

	e.svc.Config.ComputeBudget.UnitPrice = 10
	est := EstimatePlanFee(e.svc, &Plan{Signers: []submitter.Signer{signer.NewEphemeral()}})
	assert.Equal(t, 2, est.Signatures)
	assert.Equal(t, uint64(2*5_000+200_000*10), est.Lamports)
}
