package instruction

import (
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

const QuoteCurrencyLen = 32

// MaxReservesAsCollateralCheck refresh_obligation 参数
const (
	MaxReservesAsCollateralCheckPerform uint8 = 0
	MaxReservesAsCollateralCheckSkip    uint8 = 1
)

// LtvMaxWithdrawalCheck withdraw_and_redeem 参数
const (
	LtvMaxWithdrawalCheckMaxLtv               uint8 = 0
	LtvMaxWithdrawalCheckLiquidationThreshold uint8 = 1
)

const MaxLtvOverridePercent = 100

type InitLendingMarketArgs struct {
	QuoteCurrency [QuoteCurrencyLen]byte
}

// QuoteCurrencyFromString 右侧补 0 到 32 字节，超长直接报错不截断
func QuoteCurrencyFromString(s string) ([QuoteCurrencyLen]byte, error) {
	var out [QuoteCurrencyLen]byte
	if len(s) > QuoteCurrencyLen {
		return out, errs.InvalidArgument("quote currency %q is %d bytes, max %d", s, len(s), QuoteCurrencyLen)
	}
	copy(out[:], s)
	return out, nil
}

type InitUserMetadataArgs struct {
	UserLookupTable types.Pubkey
}

type InitObligationArgs struct {
	Tag uint8
	Id  uint8
}

type RefreshObligationArgs struct {
	MaxReservesAsCollateralCheck uint8
}

func (a RefreshObligationArgs) validate() error {
	if a.MaxReservesAsCollateralCheck > MaxReservesAsCollateralCheckSkip {
		return errs.InvalidArgument("max_reserves_as_collateral_check %d out of range", a.MaxReservesAsCollateralCheck)
	}
	return nil
}

// LiquidityAmountArgs deposit / deposit_and_collateralize / borrow / repay
type LiquidityAmountArgs struct {
	LiquidityAmount uint64
}

// CollateralAmountArgs deposit_collateral / withdraw / redeem
type CollateralAmountArgs struct {
	CollateralAmount uint64
}

type WithdrawAndRedeemArgs struct {
	CollateralAmount      uint64
	LtvMaxWithdrawalCheck uint8
}

func (a WithdrawAndRedeemArgs) validate() error {
	if a.LtvMaxWithdrawalCheck > LtvMaxWithdrawalCheckLiquidationThreshold {
		return errs.InvalidArgument("ltv_max_withdrawal_check %d out of range", a.LtvMaxWithdrawalCheck)
	}
	return nil
}

type LiquidateArgs struct {
	LiquidityAmount                      uint64
	MinAcceptableReceivedLiquidityAmount uint64
	MaxAllowedLtvOverridePercent         uint64
}

func (a LiquidateArgs) validate() error {
	if a.MaxAllowedLtvOverridePercent > MaxLtvOverridePercent {
		return errs.InvalidArgument("max_allowed_ltv_override_percent %d exceeds %d", a.MaxAllowedLtvOverridePercent, MaxLtvOverridePercent)
	}
	return nil
}
