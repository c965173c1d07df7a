package state

import (
	"bytes"

	"klend-client-sol/internal/pkg/types"
)

// Account RPC 返回的原始账户
type Account struct {
	Owner    types.Pubkey
	Lamports uint64
	Data     []byte
}

// ReserveSnapshot 每次构造指令前重新拉取，不跨调用缓存
type ReserveSnapshot struct {
	Address       types.Pubkey `yaml:"address"`
	Version       uint64       `yaml:"version"`
	LendingMarket types.Pubkey `yaml:"lending_market"`
	Name          string       `yaml:"name"`

	LiquidityMint         types.Pubkey `yaml:"liquidity_mint"`
	LiquidityMintDecimals uint8        `yaml:"liquidity_mint_decimals"`
	LiquiditySupplyVault  types.Pubkey `yaml:"liquidity_supply_vault"`
	LiquidityFeeVault     types.Pubkey `yaml:"liquidity_fee_vault"`
	LiquidityTokenProgram types.Pubkey `yaml:"liquidity_token_program"`
	AvailableAmount       uint64       `yaml:"available_amount"`

	CollateralMint        types.Pubkey `yaml:"collateral_mint"`
	CollateralSupplyVault types.Pubkey `yaml:"collateral_supply_vault"`
	CollateralMintSupply  uint64       `yaml:"collateral_mint_supply"`

	LoanToValuePct          uint8 `yaml:"loan_to_value_pct"`
	LiquidationThresholdPct uint8 `yaml:"liquidation_threshold_pct"`

	PythOracle             types.OptionalPubkey `yaml:"pyth_oracle"`
	SwitchboardPriceOracle types.OptionalPubkey `yaml:"switchboard_price_oracle"`
	SwitchboardTwapOracle  types.OptionalPubkey `yaml:"switchboard_twap_oracle"`
	ScopePrices            types.OptionalPubkey `yaml:"scope_prices"`
}

type ObligationDeposit struct {
	Reserve         types.Pubkey `yaml:"reserve"`
	DepositedAmount uint64       `yaml:"deposited_amount"`
}

type ObligationBorrow struct {
	Reserve types.Pubkey `yaml:"reserve"`
}

// ObligationSnapshot Deposits / Borrows 只保留非空槽位，顺序与链上一致
type ObligationSnapshot struct {
	Address       types.Pubkey         `yaml:"address"`
	Tag           uint64               `yaml:"tag"`
	LendingMarket types.Pubkey         `yaml:"lending_market"`
	Owner         types.Pubkey         `yaml:"owner"`
	Deposits      []ObligationDeposit  `yaml:"deposits"`
	Borrows       []ObligationBorrow   `yaml:"borrows"`
	Referrer      types.OptionalPubkey `yaml:"referrer"`
	HasDebt       bool                 `yaml:"has_debt"`
}

// DepositReserves 按链上顺序返回抵押 reserve
func (o *ObligationSnapshot) DepositReserves() []types.Pubkey {
	out := make([]types.Pubkey, 0, len(o.Deposits))
	for _, d := range o.Deposits {
		out = append(out, d.Reserve)
	}
	return out
}

// BorrowReserves 按链上顺序返回借款 reserve
func (o *ObligationSnapshot) BorrowReserves() []types.Pubkey {
	out := make([]types.Pubkey, 0, len(o.Borrows))
	for _, b := range o.Borrows {
		out = append(out, b.Reserve)
	}
	return out
}

// Reserves 抵押在前、借款在后，去重
func (o *ObligationSnapshot) Reserves() []types.Pubkey {
	seen := make(map[types.Pubkey]struct{}, len(o.Deposits)+len(o.Borrows))
	out := make([]types.Pubkey, 0, len(o.Deposits)+len(o.Borrows))
	for _, r := range append(o.DepositReserves(), o.BorrowReserves()...) {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

type LendingMarketSnapshot struct {
	Address       types.Pubkey `yaml:"address"`
	Version       uint64       `yaml:"version"`
	Owner         types.Pubkey `yaml:"owner"`
	QuoteCurrency [32]byte     `yaml:"-"`
}

// QuoteCurrencyString 去掉尾部 0 填充
func (m *LendingMarketSnapshot) QuoteCurrencyString() string {
	return string(bytes.TrimRight(m.QuoteCurrency[:], "\x00"))
}
