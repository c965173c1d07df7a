package instruction

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

var programID = consts.KlendProgram

func key(t *testing.T) types.Pubkey {
	t.Helper()
	var p types.Pubkey
	_, err := rand.Read(p[:])
	require.NoError(t, err)
	return p
}

func keys(metas []AccountMeta) []types.Pubkey {
	out := make([]types.Pubkey, len(metas))
	for i, m := range metas {
		out[i] = m.PubKey
	}
	return out
}

func TestDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("global:deposit_reserve_liquidity"))
	assert.Equal(t, sum[:8], DepositReserveLiquidityDiscriminator.Bytes())
	assert.Equal(t, "deposit_reserve_liquidity", Name(sum[:]))
	assert.Equal(t, "unknown", Name([]byte{1, 2, 3}))
}

func TestDepositReserveLiquidity_WireFormat(t *testing.T) {
	accounts := &DepositReserveLiquidityAccounts{
		Owner:                     key(t),
		Reserve:                   key(t),
		LendingMarket:             key(t),
		LendingMarketAuthority:    key(t),
		ReserveLiquidityMint:      key(t),
		ReserveLiquiditySupply:    key(t),
		ReserveCollateralMint:     key(t),
		UserSourceLiquidity:       key(t),
		UserDestinationCollateral: key(t),
		CollateralTokenProgram:    consts.TokenProgram,
		LiquidityTokenProgram:     consts.TokenProgram,
	}
	ix, err := NewDepositReserveLiquidityInstruction(programID, accounts, &LiquidityAmountArgs{LiquidityAmount: 1_000_000})
	require.NoError(t, err)

	assert.Equal(t, programID, ix.ProgramID)
	require.Len(t, ix.Data, 16)
	assert.Equal(t, DepositReserveLiquidityDiscriminator.Bytes(), ix.Data[:8])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(ix.Data[8:]))

	require.Len(t, ix.Accounts, 12)
	assert.Equal(t, AccountMeta{PubKey: accounts.Owner, IsSigner: true}, ix.Accounts[0])
	assert.Equal(t, AccountMeta{PubKey: accounts.Reserve, IsWritable: true}, ix.Accounts[1])
	assert.Equal(t, AccountMeta{PubKey: accounts.LendingMarket}, ix.Accounts[2])
	assert.Equal(t, AccountMeta{PubKey: consts.SysvarInstructions}, ix.Accounts[11])
}

func TestRefreshReserve_OptionalOracles(t *testing.T) {
	reserve, market, pyth, scope := key(t), key(t), key(t), key(t)

	// 全部缺省：尾部可选槽位全部省略
	ix, err := NewRefreshReserveInstruction(programID, &RefreshReserveAccounts{Reserve: reserve, LendingMarket: market})
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{reserve, market}, keys(ix.Accounts))
	assert.Equal(t, RefreshReserveDiscriminator.Bytes(), ix.Data)

	// 只有 pyth：后面三个省略
	ix, err = NewRefreshReserveInstruction(programID, &RefreshReserveAccounts{
		Reserve: reserve, LendingMarket: market, PythOracle: types.Present(pyth),
	})
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{reserve, market, pyth}, keys(ix.Accounts))
	assert.False(t, ix.Accounts[2].IsWritable)

	// 只有 scope：中间缺省位用程序 id 占位
	ix, err = NewRefreshReserveInstruction(programID, &RefreshReserveAccounts{
		Reserve: reserve, LendingMarket: market, ScopePrices: types.Present(scope),
	})
	require.NoError(t, err)
	assert.Equal(t, []types.Pubkey{reserve, market, programID, programID, programID, scope}, keys(ix.Accounts))
}

func TestRefreshObligation_Remaining(t *testing.T) {
	market, obligation := key(t), key(t)
	a, b, c := key(t), key(t), key(t)

	ix, err := NewRefreshObligationInstruction(programID, &RefreshObligationAccounts{
		LendingMarket: market,
		Obligation:    obligation,
		Remaining:     []types.Pubkey{a, b, c},
	}, &RefreshObligationArgs{})
	require.NoError(t, err)

	require.Len(t, ix.Accounts, 5)
	assert.Equal(t, []types.Pubkey{market, obligation, a, b, c}, keys(ix.Accounts))
	for _, m := range ix.Accounts[2:] {
		assert.False(t, m.IsSigner)
		assert.False(t, m.IsWritable)
	}

	args, err := DecodeRefreshObligationArgs(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, MaxReservesAsCollateralCheckPerform, args.MaxReservesAsCollateralCheck)

	_, err = NewRefreshObligationInstruction(programID, &RefreshObligationAccounts{}, &RefreshObligationArgs{MaxReservesAsCollateralCheck: 2})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBorrow_ReferrerPlaceholder(t *testing.T) {
	accounts := &BorrowObligationLiquidityAccounts{
		Owner:        key(t),
		Obligation:   key(t),
		TokenProgram: consts.TokenProgram,
	}
	ix, err := NewBorrowObligationLiquidityInstruction(programID, accounts, &LiquidityAmountArgs{LiquidityAmount: 5})
	require.NoError(t, err)
	require.Len(t, ix.Accounts, 12)
	assert.Equal(t, AccountMeta{PubKey: programID}, ix.Accounts[9])

	referrer := key(t)
	accounts.ReferrerTokenState = types.Present(referrer)
	ix, err = NewBorrowObligationLiquidityInstruction(programID, accounts, &LiquidityAmountArgs{LiquidityAmount: 5})
	require.NoError(t, err)
	assert.Equal(t, AccountMeta{PubKey: referrer, IsWritable: true}, ix.Accounts[9])
}

func TestAmountRoundTrip(t *testing.T) {
	for _, amount := range []uint64{0, 1, math.MaxUint64} {
		ix, err := NewBorrowObligationLiquidityInstruction(programID, &BorrowObligationLiquidityAccounts{}, &LiquidityAmountArgs{LiquidityAmount: amount})
		require.NoError(t, err)
		got, err := DecodeLiquidityAmountArgs(BorrowObligationLiquidityDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, got.LiquidityAmount)

		ix, err = NewRepayObligationLiquidityInstruction(programID, &RepayObligationLiquidityAccounts{}, &LiquidityAmountArgs{LiquidityAmount: amount})
		require.NoError(t, err)
		got, err = DecodeLiquidityAmountArgs(RepayObligationLiquidityDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, got.LiquidityAmount)

		ix, err = NewDepositAndCollateralizeInstruction(programID, &DepositAndCollateralizeAccounts{}, &LiquidityAmountArgs{LiquidityAmount: amount})
		require.NoError(t, err)
		got, err = DecodeLiquidityAmountArgs(DepositAndCollateralizeDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, got.LiquidityAmount)

		ix, err = NewWithdrawObligationCollateralInstruction(programID, &WithdrawObligationCollateralAccounts{}, &CollateralAmountArgs{CollateralAmount: amount})
		require.NoError(t, err)
		coll, err := DecodeCollateralAmountArgs(WithdrawObligationCollateralDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, coll.CollateralAmount)

		ix, err = NewDepositObligationCollateralInstruction(programID, &DepositObligationCollateralAccounts{}, &CollateralAmountArgs{CollateralAmount: amount})
		require.NoError(t, err)
		coll, err = DecodeCollateralAmountArgs(DepositObligationCollateralDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, coll.CollateralAmount)

		ix, err = NewRedeemReserveCollateralInstruction(programID, &RedeemReserveCollateralAccounts{}, &CollateralAmountArgs{CollateralAmount: amount})
		require.NoError(t, err)
		coll, err = DecodeCollateralAmountArgs(RedeemReserveCollateralDiscriminator, ix.Data)
		require.NoError(t, err)
		assert.Equal(t, amount, coll.CollateralAmount)

		wr := WithdrawAndRedeemArgs{CollateralAmount: amount, LtvMaxWithdrawalCheck: LtvMaxWithdrawalCheckLiquidationThreshold}
		ix, err = NewWithdrawAndRedeemInstruction(programID, &WithdrawAndRedeemAccounts{}, &wr)
		require.NoError(t, err)
		gotWr, err := DecodeWithdrawAndRedeemArgs(ix.Data)
		require.NoError(t, err)
		assert.Equal(t, wr, gotWr)

		liq := LiquidateArgs{LiquidityAmount: amount, MinAcceptableReceivedLiquidityAmount: amount, MaxAllowedLtvOverridePercent: 100}
		ix, err = NewLiquidateInstruction(programID, &LiquidateAccounts{}, &liq)
		require.NoError(t, err)
		gotLiq, err := DecodeLiquidateArgs(ix.Data)
		require.NoError(t, err)
		assert.Equal(t, liq, gotLiq)
	}
}

func TestDecodeArgs_WrongDiscriminator(t *testing.T) {
	ix, err := NewRepayObligationLiquidityInstruction(programID, &RepayObligationLiquidityAccounts{}, &LiquidityAmountArgs{LiquidityAmount: 1})
	require.NoError(t, err)
	_, err = DecodeLiquidityAmountArgs(BorrowObligationLiquidityDiscriminator, ix.Data)
	assert.ErrorIs(t, err, errs.ErrDecode)
}

func TestInitInstructions(t *testing.T) {
	quote, err := QuoteCurrencyFromString("USD")
	require.NoError(t, err)
	ix, err := NewInitLendingMarketInstruction(programID, &InitLendingMarketAccounts{
		LendingMarketOwner: key(t), LendingMarket: key(t), LendingMarketAuthority: key(t),
	}, &InitLendingMarketArgs{QuoteCurrency: quote})
	require.NoError(t, err)
	assert.Len(t, ix.Data, 8+32)
	gotQuote, err := DecodeInitLendingMarketArgs(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, quote, gotQuote.QuoteCurrency)
	assert.Equal(t, consts.SysvarRent, ix.Accounts[4].PubKey)

	_, err = QuoteCurrencyFromString("this-quote-currency-is-longer-than-32")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	ix, err = NewInitObligationInstruction(programID, &InitObligationAccounts{}, &InitObligationArgs{Tag: 1, Id: 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, ix.Data[8:])
	gotObl, err := DecodeInitObligationArgs(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, InitObligationArgs{Tag: 1, Id: 2}, gotObl)
	assert.True(t, ix.Accounts[0].IsSigner)
	assert.True(t, ix.Accounts[1].IsSigner && ix.Accounts[1].IsWritable)

	lookup := key(t)
	ix, err = NewInitUserMetadataInstruction(programID, &InitUserMetadataAccounts{}, &InitUserMetadataArgs{UserLookupTable: lookup})
	require.NoError(t, err)
	// referrer 缺省位于中间，用程序 id 占位
	require.Len(t, ix.Accounts, 6)
	assert.Equal(t, programID, ix.Accounts[3].PubKey)
	gotMeta, err := DecodeInitUserMetadataArgs(ix.Data)
	require.NoError(t, err)
	assert.Equal(t, lookup, gotMeta.UserLookupTable)

	ix, err = NewInitReserveInstruction(programID, &InitReserveAccounts{})
	require.NoError(t, err)
	assert.Len(t, ix.Accounts, 14)
	assert.Equal(t, InitReserveDiscriminator.Bytes(), ix.Data)
}

func TestLiquidate_Validation(t *testing.T) {
	_, err := NewLiquidateInstruction(programID, &LiquidateAccounts{}, &LiquidateArgs{MaxAllowedLtvOverridePercent: 101})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	remaining := []types.Pubkey{key(t), key(t)}
	ix, err := NewLiquidateInstruction(programID, &LiquidateAccounts{Remaining: remaining}, &LiquidateArgs{})
	require.NoError(t, err)
	require.Len(t, ix.Accounts, 22)
	assert.Equal(t, consts.SysvarInstructions, ix.Accounts[19].PubKey)
	assert.Equal(t, remaining, keys(ix.Accounts[20:]))
}

func TestWithdrawAndRedeem_Validation(t *testing.T) {
	_, err := NewWithdrawAndRedeemInstruction(programID, &WithdrawAndRedeemAccounts{}, &WithdrawAndRedeemArgs{LtvMaxWithdrawalCheck: 7})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestSdkConversion(t *testing.T) {
	ix := Instruction{
		ProgramID: programID,
		Accounts:  []AccountMeta{{PubKey: key(t), IsSigner: true, IsWritable: true}, {PubKey: key(t)}},
		Data:      []byte{9, 8, 7},
	}
	sdk := ix.ToSdk()
	assert.Equal(t, programID[:], sdk.ProgramID.Bytes())
	assert.True(t, sdk.Accounts[0].IsSigner)
	assert.Equal(t, ix, FromSdk(sdk))
	assert.Len(t, ToSdkAll([]Instruction{ix, ix}), 2)
}
