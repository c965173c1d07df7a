package instruction

import (
	"fmt"

	"github.com/near/borsh-go"

	"klend-client-sol/internal/pkg/anchor"
	"klend-client-sol/internal/pkg/errs"
)

// 从指令 data 还原参数，用于日志与往返校验

func DecodeInitLendingMarketArgs(data []byte) (InitLendingMarketArgs, error) {
	var args InitLendingMarketArgs
	return args, decodeArgs(InitLendingMarketDiscriminator, data, &args)
}

func DecodeInitUserMetadataArgs(data []byte) (InitUserMetadataArgs, error) {
	var args InitUserMetadataArgs
	return args, decodeArgs(InitUserMetadataDiscriminator, data, &args)
}

func DecodeInitObligationArgs(data []byte) (InitObligationArgs, error) {
	var args InitObligationArgs
	return args, decodeArgs(InitObligationDiscriminator, data, &args)
}

func DecodeRefreshObligationArgs(data []byte) (RefreshObligationArgs, error) {
	var args RefreshObligationArgs
	return args, decodeArgs(RefreshObligationDiscriminator, data, &args)
}

// DecodeLiquidityAmountArgs disc 为期望的指令 discriminator（deposit / borrow / repay 共用同一参数结构）
func DecodeLiquidityAmountArgs(disc anchor.Discriminator, data []byte) (LiquidityAmountArgs, error) {
	var args LiquidityAmountArgs
	return args, decodeArgs(disc, data, &args)
}

func DecodeCollateralAmountArgs(disc anchor.Discriminator, data []byte) (CollateralAmountArgs, error) {
	var args CollateralAmountArgs
	return args, decodeArgs(disc, data, &args)
}

func DecodeWithdrawAndRedeemArgs(data []byte) (WithdrawAndRedeemArgs, error) {
	var args WithdrawAndRedeemArgs
	return args, decodeArgs(WithdrawAndRedeemDiscriminator, data, &args)
}

func DecodeLiquidateArgs(data []byte) (LiquidateArgs, error) {
	var args LiquidateArgs
	return args, decodeArgs(LiquidateAndRedeemDiscriminator, data, &args)
}

func decodeArgs(disc anchor.Discriminator, data []byte, out any) error {
	if !disc.Matches(data) {
		return fmt.Errorf("%w: instruction discriminator mismatch", errs.ErrDecode)
	}
	if err := borsh.Deserialize(out, data[anchor.DiscriminatorLen:]); err != nil {
		return fmt.Errorf("%w: %T: %v", errs.ErrDecode, out, err)
	}
	return nil
}
