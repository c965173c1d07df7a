package instruction

import "klend-client-sol/internal/pkg/anchor"

// klend 指令 discriminator
var (
	InitLendingMarketDiscriminator            = anchor.InstructionDiscriminator("init_lending_market")
	InitReserveDiscriminator                  = anchor.InstructionDiscriminator("init_reserve")
	InitUserMetadataDiscriminator             = anchor.InstructionDiscriminator("init_user_metadata")
	InitObligationDiscriminator               = anchor.InstructionDiscriminator("init_obligation")
	RefreshReserveDiscriminator               = anchor.InstructionDiscriminator("refresh_reserve")
	RefreshObligationDiscriminator            = anchor.InstructionDiscriminator("refresh_obligation")
	DepositReserveLiquidityDiscriminator      = anchor.InstructionDiscriminator("deposit_reserve_liquidity")
	DepositObligationCollateralDiscriminator  = anchor.InstructionDiscriminator("deposit_obligation_collateral")
	DepositAndCollateralizeDiscriminator      = anchor.InstructionDiscriminator("deposit_reserve_liquidity_and_obligation_collateral")
	WithdrawObligationCollateralDiscriminator = anchor.InstructionDiscriminator("withdraw_obligation_collateral")
	WithdrawAndRedeemDiscriminator            = anchor.InstructionDiscriminator("withdraw_obligation_collateral_and_redeem_reserve_collateral")
	BorrowObligationLiquidityDiscriminator    = anchor.InstructionDiscriminator("borrow_obligation_liquidity")
	RepayObligationLiquidityDiscriminator     = anchor.InstructionDiscriminator("repay_obligation_liquidity")
	RedeemReserveCollateralDiscriminator      = anchor.InstructionDiscriminator("redeem_reserve_collateral")
	LiquidateAndRedeemDiscriminator           = anchor.InstructionDiscriminator("liquidate_obligation_and_redeem_reserve_collateral")
)

// Name 根据 discriminator 反查指令名，用于日志
func Name(data []byte) string {
	for name, d := range byName {
		if d.Matches(data) {
			return name
		}
	}
	return "unknown"
}

var byName = map[string]anchor.Discriminator{
	"init_lending_market":           InitLendingMarketDiscriminator,
	"init_reserve":                  InitReserveDiscriminator,
	"init_user_metadata":            InitUserMetadataDiscriminator,
	"init_obligation":               InitObligationDiscriminator,
	"refresh_reserve":               RefreshReserveDiscriminator,
	"refresh_obligation":            RefreshObligationDiscriminator,
	"deposit_reserve_liquidity":     DepositReserveLiquidityDiscriminator,
	"deposit_obligation_collateral": DepositObligationCollateralDiscriminator,
	"deposit_reserve_liquidity_and_obligation_collateral":          DepositAndCollateralizeDiscriminator,
	"withdraw_obligation_collateral":                               WithdrawObligationCollateralDiscriminator,
	"withdraw_obligation_collateral_and_redeem_reserve_collateral": WithdrawAndRedeemDiscriminator,
	"borrow_obligation_liquidity":                                  BorrowObligationLiquidityDiscriminator,
	"repay_obligation_liquidity":                                   RepayObligationLiquidityDiscriminator,
	"redeem_reserve_collateral":                                    RedeemReserveCollateralDiscriminator,
	"liquidate_obligation_and_redeem_reserve_collateral":           LiquidateAndRedeemDiscriminator,
}
