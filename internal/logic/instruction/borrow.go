package instruction

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/pkg/types"
)

type BorrowObligationLiquidityAccounts struct {
	Owner                             types.Pubkey
	Obligation                        types.Pubkey
	LendingMarket                     types.Pubkey
	LendingMarketAuthority            types.Pubkey
	BorrowReserve                     types.Pubkey
	BorrowReserveLiquidityMint        types.Pubkey
	ReserveSourceLiquidity            types.Pubkey
	BorrowReserveLiquidityFeeReceiver types.Pubkey
	UserDestinationLiquidity          types.Pubkey
	ReferrerTokenState                types.OptionalPubkey
	TokenProgram                      types.Pubkey
}

func NewBorrowObligationLiquidityInstruction(programID types.Pubkey, accounts *BorrowObligationLiquidityAccounts, args *LiquidityAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 12).
		signer(accounts.Owner, false).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		readonly(accounts.LendingMarketAuthority).
		writable(accounts.BorrowReserve).
		readonly(accounts.BorrowReserveLiquidityMint).
		writable(accounts.ReserveSourceLiquidity).
		writable(accounts.BorrowReserveLiquidityFeeReceiver).
		writable(accounts.UserDestinationLiquidity).
		optional(accounts.ReferrerTokenState, true).
		readonly(accounts.TokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, BorrowObligationLiquidityDiscriminator, *args)
}

type RepayObligationLiquidityAccounts struct {
	Owner                       types.Pubkey
	Obligation                  types.Pubkey
	LendingMarket               types.Pubkey
	RepayReserve                types.Pubkey
	ReserveLiquidityMint        types.Pubkey
	ReserveDestinationLiquidity types.Pubkey
	UserSourceLiquidity         types.Pubkey
	TokenProgram                types.Pubkey
}

func NewRepayObligationLiquidityInstruction(programID types.Pubkey, accounts *RepayObligationLiquidityAccounts, args *LiquidityAmountArgs) (Instruction, error) {
	metas := newAccountList(programID, 9).
		signer(accounts.Owner, false).
		writable(accounts.Obligation).
		readonly(accounts.LendingMarket).
		writable(accounts.RepayReserve).
		readonly(accounts.ReserveLiquidityMint).
		writable(accounts.ReserveDestinationLiquidity).
		writable(accounts.UserSourceLiquidity).
		readonly(accounts.TokenProgram).
		readonly(consts.SysvarInstructions).
		build()
	return newInstruction(programID, metas, RepayObligationLiquidityDiscriminator, *args)
}
