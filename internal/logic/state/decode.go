package state

import (
	"bytes"
	"fmt"

	"github.com/near/borsh-go"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/anchor"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

var (
	LendingMarketDiscriminator = anchor.AccountDiscriminator("LendingMarket")
	ReserveDiscriminator       = anchor.AccountDiscriminator("Reserve")
	ObligationDiscriminator    = anchor.AccountDiscriminator("Obligation")
	UserMetadataDiscriminator  = anchor.AccountDiscriminator("UserMetadata")
)

func DecodeLendingMarket(addr types.Pubkey, data []byte) (*LendingMarketSnapshot, error) {
	var layout lendingMarketLayout
	if err := decodeAccount("LendingMarket", LendingMarketDiscriminator, consts.LendingMarketSize, data, &layout); err != nil {
		return nil, err
	}
	return &LendingMarketSnapshot{
		Address:       addr,
		Version:       layout.Version,
		Owner:         layout.LendingMarketOwner,
		QuoteCurrency: layout.QuoteCurrency,
	}, nil
}

func DecodeReserve(addr types.Pubkey, data []byte) (*ReserveSnapshot, error) {
	var layout reserveLayout
	if err := decodeAccount("Reserve", ReserveDiscriminator, consts.ReserveSize, data, &layout); err != nil {
		return nil, err
	}
	liq, coll, token := layout.Liquidity, layout.Collateral, layout.Config.TokenInfo
	if liq.MintDecimals > 255 {
		return nil, fmt.Errorf("%w: reserve %s mint decimals %d out of range", errs.ErrDecode, addr, liq.MintDecimals)
	}

	return &ReserveSnapshot{
		Address:       addr,
		Version:       layout.Version,
		LendingMarket: layout.LendingMarket,
		Name:          string(bytes.TrimRight(token.Name[:], "\x00")),

		LiquidityMint:         liq.MintPubkey,
		LiquidityMintDecimals: uint8(liq.MintDecimals),
		LiquiditySupplyVault:  liq.SupplyVault,
		LiquidityFeeVault:     liq.FeeVault,
		LiquidityTokenProgram: liq.TokenProgram,
		AvailableAmount:       liq.AvailableAmount,

		CollateralMint:        coll.MintPubkey,
		CollateralSupplyVault: coll.SupplyVault,
		CollateralMintSupply:  coll.MintTotalSupply,

		LoanToValuePct:          layout.Config.LoanToValuePct,
		LiquidationThresholdPct: layout.Config.LiquidationThresholdPct,

		PythOracle:             optional(token.PythPrice),
		SwitchboardPriceOracle: optional(token.SwitchboardPriceAggregator),
		SwitchboardTwapOracle:  optional(token.SwitchboardTwapAggregator),
		ScopePrices:            optional(token.ScopePriceFeed),
	}, nil
}

func DecodeObligation(addr types.Pubkey, data []byte) (*ObligationSnapshot, error) {
	var layout obligationLayout
	if err := decodeAccount("Obligation", ObligationDiscriminator, consts.ObligationSize, data, &layout); err != nil {
		return nil, err
	}

	snap := &ObligationSnapshot{
		Address:       addr,
		Tag:           layout.Tag,
		LendingMarket: layout.LendingMarket,
		Owner:         layout.Owner,
		Referrer:      optional(layout.Referrer),
		HasDebt:       layout.HasDebt != 0,
	}
	// 空槽位（reserve 为 0 地址）直接丢弃，保持顺序
	for _, d := range layout.Deposits {
		if consts.IsUnset(d.DepositReserve) {
			continue
		}
		snap.Deposits = append(snap.Deposits, ObligationDeposit{Reserve: d.DepositReserve, DepositedAmount: d.DepositedAmount})
	}
	for _, b := range layout.Borrows {
		if consts.IsUnset(b.BorrowReserve) {
			continue
		}
		snap.Borrows = append(snap.Borrows, ObligationBorrow{Reserve: b.BorrowReserve})
	}
	return snap, nil
}

// decodeAccount 校验 discriminator 与最小长度后 borsh 解码
func decodeAccount(name string, disc anchor.Discriminator, size int, data []byte, out any) (err error) {
	if len(data) < anchor.DiscriminatorLen+size {
		return fmt.Errorf("%w: %s data too short: got=%d want>=%d", errs.ErrDecode, name, len(data), anchor.DiscriminatorLen+size)
	}
	if !disc.Matches(data) {
		return fmt.Errorf("%w: %s discriminator mismatch: got=%x want=%x", errs.ErrDecode, name, data[:anchor.DiscriminatorLen], disc[:])
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s borsh panic: %v", errs.ErrDecode, name, r)
		}
	}()
	if err := borsh.Deserialize(out, data[anchor.DiscriminatorLen:]); err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrDecode, name, err)
	}
	return nil
}

// optional 0 地址和 klend 空地址都视为 Absent
func optional(p types.Pubkey) types.OptionalPubkey {
	if consts.IsUnset(p) {
		return types.Absent()
	}
	return types.Present(p)
}
