package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"klend-client-sol/internal/logic/journal"
	"klend-client-sol/internal/logic/operation"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/svc"
	"klend-client-sol/internal/tools"
)

type reserveView struct {
	Reserve   *state.ReserveSnapshot `yaml:"reserve"`
	Available string                 `yaml:"available"`
}

type marketView struct {
	Market        *state.LendingMarketSnapshot `yaml:"market"`
	QuoteCurrency string                       `yaml:"quote_currency"`
}

type statusView struct {
	Signature types.Signature            `yaml:"signature"`
	Status    *submitter.SignatureStatus `yaml:"status"`
	Confirmed *submitter.Result          `yaml:"confirmed,omitempty"`
	Journal   *journal.Entry             `yaml:"journal,omitempty"`
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "refresh-reserve <reserve>",
		Short: "Refresh a reserve's interest and oracle price",
		Args:  cobra.ExactArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			reserve, err := parsePubkey("reserve", args[0])
			if err != nil {
				return nil, err
			}
			return operation.RefreshReserve(ctx, s, reserve)
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "refresh-obligation <obligation>...",
		Short: "Refresh obligations; several addresses are submitted concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			obligations, err := parsePubkeyArgs(args)
			if err != nil {
				return nil, err
			}
			if len(obligations) == 1 {
				return operation.RefreshObligation(ctx, s, obligations[0])
			}
			results := operation.RefreshObligations(ctx, s, obligations)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return results, fmt.Errorf("%d of %d obligations failed to refresh", failed, len(results))
			}
			return results, nil
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-reserve <reserve>",
		Short: "Print a decoded reserve",
		Args:  cobra.ExactArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			addr, err := parsePubkey("reserve", args[0])
			if err != nil {
				return nil, err
			}
			reserve, err := s.Reader.Reserve(ctx, addr)
			if err != nil {
				return nil, err
			}
			return &reserveView{
				Reserve:   reserve,
				Available: tools.FormatTokenAmount(reserve.AvailableAmount, reserve.LiquidityMintDecimals),
			}, nil
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-obligation <obligation>",
		Short: "Print a decoded obligation",
		Args:  cobra.ExactArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			addr, err := parsePubkey("obligation", args[0])
			if err != nil {
				return nil, err
			}
			return s.Reader.Obligation(ctx, addr)
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-market <market>",
		Short: "Print a decoded lending market",
		Args:  cobra.ExactArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			addr, err := parsePubkey("market", args[0])
			if err != nil {
				return nil, err
			}
			market, err := s.Reader.LendingMarket(ctx, addr)
			if err != nil {
				return nil, err
			}
			return &marketView{Market: market, QuoteCurrency: market.QuoteCurrencyString()}, nil
		}),
	})

	var statusWait bool
	statusCmd := &cobra.Command{
		Use:   "status <signature>",
		Short: "Query a submitted transaction by signature",
		Args:  cobra.ExactArgs(1),
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, args []string) (any, error) {
			sig, err := types.SignatureFromBase58(args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid signature: %w", err)
			}
			view := &statusView{Signature: sig}
			if s.Journal != nil {
				if view.Journal, err = s.Journal.Lookup(ctx, sig); err != nil {
					return nil, err
				}
			}
			if statusWait {
				res, err := s.Submitter.Confirm(ctx, sig)
				view.Confirmed = res
				return view, err
			}
			if view.Status, err = s.Submitter.Status(ctx, sig); err != nil {
				return nil, err
			}
			return view, nil
		}),
	}
	statusCmd.Flags().BoolVar(&statusWait, "wait", false, "Poll until the configured commitment or timeout")
	rootCmd.AddCommand(statusCmd)

	var feeSignatures int
	estimateCmd := &cobra.Command{
		Use:   "estimate-fee",
		Short: "Estimate the fee of a transaction with the configured compute budget",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(_ context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			if feeSignatures <= 0 {
				return nil, fmt.Errorf("--signatures must be positive")
			}
			est := operation.EstimateFee(s, feeSignatures)
			return &struct {
				operation.FeeEstimate `yaml:",inline"`
				Sol                   string `yaml:"sol"`
			}{est, tools.FormatTokenAmount(est.Lamports, tools.SOLDecimals)}, nil
		}),
	}
	estimateCmd.Flags().IntVar(&feeSignatures, "signatures", 1, "Number of signatures")
	rootCmd.AddCommand(estimateCmd)
}
