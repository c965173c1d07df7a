package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/operation"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/svc"
)

type amountFlags struct {
	obligation string
	reserve    string
	amount     uint64
}

func (f *amountFlags) bind(cmd *cobra.Command, withObligation bool) {
	if withObligation {
		cmd.Flags().StringVar(&f.obligation, "obligation", "", "Obligation address")
	}
	cmd.Flags().StringVar(&f.reserve, "reserve", "", "Reserve address")
	cmd.Flags().Uint64Var(&f.amount, "amount", 0, "Amount in base units")
}

func (f *amountFlags) reserveParams() (operation.ReserveAmountParams, error) {
	reserve, err := parsePubkey("reserve", f.reserve)
	if err != nil {
		return operation.ReserveAmountParams{}, err
	}
	return operation.ReserveAmountParams{Reserve: reserve, Amount: f.amount}, nil
}

func (f *amountFlags) obligationParams() (operation.ObligationAmountParams, error) {
	obligation, err := parsePubkey("obligation", f.obligation)
	if err != nil {
		return operation.ObligationAmountParams{}, err
	}
	reserve, err := parsePubkey("reserve", f.reserve)
	if err != nil {
		return operation.ObligationAmountParams{}, err
	}
	return operation.ObligationAmountParams{Obligation: obligation, Reserve: reserve, Amount: f.amount}, nil
}

type reserveOp func(context.Context, *svc.ServiceContext, operation.ReserveAmountParams) (*submitter.Result, error)

type obligationOp func(context.Context, *svc.ServiceContext, operation.ObligationAmountParams) (*submitter.Result, error)

func reserveCommand(use, short string, op reserveOp) *cobra.Command {
	var f amountFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			p, err := f.reserveParams()
			if err != nil {
				return nil, err
			}
			return op(ctx, s, p)
		}),
	}
	f.bind(cmd, false)
	return cmd
}

func obligationCommand(use, short string, op obligationOp) *cobra.Command {
	var f amountFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			p, err := f.obligationParams()
			if err != nil {
				return nil, err
			}
			return op(ctx, s, p)
		}),
	}
	f.bind(cmd, true)
	return cmd
}

func init() {
	rootCmd.AddCommand(
		reserveCommand("deposit", "Deposit liquidity into a reserve for collateral tokens", operation.DepositReserveLiquidity),
		reserveCommand("redeem", "Redeem collateral tokens for reserve liquidity", operation.RedeemCollateral),
		obligationCommand("deposit-collateral", "Deposit liquidity and add it as obligation collateral", operation.DepositCollateral),
		obligationCommand("borrow", "Borrow liquidity against an obligation", operation.Borrow),
		obligationCommand("repay", "Repay obligation debt", operation.Repay),
		obligationCommand("add-collateral", "Move collateral tokens from the wallet into an obligation", operation.AddCollateral),
		obligationCommand("remove-collateral", "Move obligation collateral tokens back to the wallet", operation.RemoveCollateral),
	)

	var (
		wf            amountFlags
		withdrawCheck string
	)
	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw obligation collateral and redeem it to liquidity",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			p, err := wf.obligationParams()
			if err != nil {
				return nil, err
			}
			check, err := parseLtvCheck(withdrawCheck)
			if err != nil {
				return nil, err
			}
			return operation.WithdrawCollateral(ctx, s, operation.WithdrawParams{ObligationAmountParams: p, LtvCheck: check})
		}),
	}
	wf.bind(withdrawCmd, true)
	withdrawCmd.Flags().StringVar(&withdrawCheck, "ltv-check", "max-ltv", "Withdrawal check: max-ltv|liquidation-threshold")
	rootCmd.AddCommand(withdrawCmd)

	var (
		liqObligation, liqRepay, liqWithdraw string
		liqAmount, liqMinReceived, liqMaxLtv uint64
	)
	liquidateCmd := &cobra.Command{
		Use:   "liquidate",
		Short: "Repay an unhealthy obligation's debt and seize its collateral",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			obligation, err := parsePubkey("obligation", liqObligation)
			if err != nil {
				return nil, err
			}
			repay, err := parsePubkey("repay-reserve", liqRepay)
			if err != nil {
				return nil, err
			}
			withdraw, err := parsePubkey("withdraw-reserve", liqWithdraw)
			if err != nil {
				return nil, err
			}
			return operation.Liquidate(ctx, s, operation.LiquidateParams{
				Obligation:            obligation,
				RepayReserve:          repay,
				WithdrawReserve:       withdraw,
				LiquidityAmount:       liqAmount,
				MinReceived:           liqMinReceived,
				MaxLtvOverridePercent: liqMaxLtv,
			})
		}),
	}
	liquidateCmd.Flags().StringVar(&liqObligation, "obligation", "", "Obligation to liquidate")
	liquidateCmd.Flags().StringVar(&liqRepay, "repay-reserve", "", "Reserve of the debt being repaid")
	liquidateCmd.Flags().StringVar(&liqWithdraw, "withdraw-reserve", "", "Reserve of the collateral being seized")
	liquidateCmd.Flags().Uint64Var(&liqAmount, "amount", 0, "Liquidity amount to repay in base units")
	liquidateCmd.Flags().Uint64Var(&liqMinReceived, "min-received", 0, "Minimum liquidity to receive, 0 disables the check")
	liquidateCmd.Flags().Uint64Var(&liqMaxLtv, "max-ltv-override", 0, "Max allowed LTV override percent (0-100)")
	rootCmd.AddCommand(liquidateCmd)
}

func parseLtvCheck(s string) (uint8, error) {
	switch s {
	case "", "max-ltv":
		return instruction.LtvMaxWithdrawalCheckMaxLtv, nil
	case "liquidation-threshold":
		return instruction.LtvMaxWithdrawalCheckLiquidationThreshold, nil
	default:
		return 0, fmt.Errorf("invalid --ltv-check %q (use max-ltv|liquidation-threshold)", s)
	}
}
