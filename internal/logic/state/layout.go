package state

import (
	"klend-client-sol/internal/pkg/types"
)

// 链上账户布局（borsh 小端，字段顺序与 klend 一致）
// 只声明到客户端需要读取的最后一个字段，之后的字节不解析

type u128 [16]byte

type lastUpdateLayout struct {
	Slot        uint64
	Stale       uint8
	PriceStatus uint8
	Placeholder [6]byte
}

// ---------------- LendingMarket ----------------

type lendingMarketLayout struct {
	Version                 uint64
	BumpSeed                uint64
	LendingMarketOwner      types.Pubkey
	LendingMarketOwnerCache types.Pubkey
	QuoteCurrency           [32]byte
}

// ---------------- Reserve ----------------

type reserveLayout struct {
	Version           uint64
	LastUpdate        lastUpdateLayout
	LendingMarket     types.Pubkey
	FarmCollateral    types.Pubkey
	FarmDebt          types.Pubkey
	Liquidity         reserveLiquidityLayout
	LiquidityPadding  [150]uint64
	Collateral        reserveCollateralLayout
	CollateralPadding [150]uint64
	Config            reserveConfigLayout
}

type reserveLiquidityLayout struct {
	MintPubkey                   types.Pubkey
	SupplyVault                  types.Pubkey
	FeeVault                     types.Pubkey
	AvailableAmount              uint64
	BorrowedAmountSf             u128
	MarketPriceSf                u128
	MarketPriceLastUpdatedTs     uint64
	MintDecimals                 uint64
	DepositLimitCrossedTimestamp uint64
	BorrowLimitCrossedTimestamp  uint64
	CumulativeBorrowRateBsf      [48]byte
	AccumulatedProtocolFeesSf    u128
	AccumulatedReferrerFeesSf    u128
	PendingReferrerFeesSf        u128
	AbsoluteReferralRateSf       u128
	TokenProgram                 types.Pubkey
	Padding2                     [51]uint64
	Padding3                     [32]u128
}

type reserveCollateralLayout struct {
	MintPubkey      types.Pubkey
	MintTotalSupply uint64
	SupplyVault     types.Pubkey
	Padding1        [32]u128
	Padding2        [32]u128
}

type reserveConfigLayout struct {
	Status                                 uint8
	AssetTier                              uint8
	HostFixedInterestRateBps               uint16
	Reserved2                              [2]byte
	Reserved3                              [8]byte
	ProtocolTakeRatePct                    uint8
	ProtocolLiquidationFeePct              uint8
	LoanToValuePct                         uint8
	LiquidationThresholdPct                uint8
	MinLiquidationBonusBps                 uint16
	MaxLiquidationBonusBps                 uint16
	BadDebtLiquidationBonusBps             uint16
	DeleveragingMarginCallPeriodSecs       uint64
	DeleveragingThresholdDecreaseBpsPerDay uint64
	Fees                                   [24]byte
	BorrowRateCurve                        [88]byte
	BorrowFactorPct                        uint64
	DepositLimit                           uint64
	BorrowLimit                            uint64
	TokenInfo                              tokenInfoLayout
}

type tokenInfoLayout struct {
	Name                       [32]byte
	Heuristic                  [24]byte
	MaxTwapDivergenceBps       uint64
	MaxAgePriceSeconds         uint64
	MaxAgeTwapSeconds          uint64
	ScopePriceFeed             types.Pubkey
	ScopePriceChain            [4]uint16
	ScopeTwapChain             [4]uint16
	SwitchboardPriceAggregator types.Pubkey
	SwitchboardTwapAggregator  types.Pubkey
	PythPrice                  types.Pubkey
}

// ---------------- Obligation ----------------

type obligationLayout struct {
	Tag                                uint64
	LastUpdate                         lastUpdateLayout
	LendingMarket                      types.Pubkey
	Owner                              types.Pubkey
	Deposits                           [8]obligationCollateralLayout
	LowestReserveDepositLiquidationLtv uint64
	DepositedValueSf                   u128
	Borrows                            [5]obligationLiquidityLayout
	BorrowFactorAdjustedDebtValueSf    u128
	BorrowedAssetsMarketValueSf        u128
	AllowedBorrowValueSf               u128
	UnhealthyBorrowValueSf             u128
	DepositsAssetTiers                 [8]uint8
	BorrowsAssetTiers                  [5]uint8
	ElevationGroup                     uint8
	NumOfObsoleteReserves              uint8
	HasDebt                            uint8
	Referrer                           types.Pubkey
}

type obligationCollateralLayout struct {
	DepositReserve                                      types.Pubkey
	DepositedAmount                                     uint64
	MarketValueSf                                       u128
	BorrowedAmountAgainstThisCollateralInElevationGroup uint64
	Padding                                             [9]uint64
}

type obligationLiquidityLayout struct {
	BorrowReserve                        types.Pubkey
	CumulativeBorrowRateBsf              [48]byte
	Padding                              uint64
	BorrowedAmountSf                     u128
	MarketValueSf                        u128
	BorrowFactorAdjustedMarketValueSf    u128
	BorrowedAmountOutsideElevationGroups uint64
	Padding2                             [7]uint64
}
