package main

import (
	"context"

	"github.com/spf13/cobra"

	"klend-client-sol/internal/logic/operation"
	"klend-client-sol/internal/svc"
)

func init() {
	var quoteCurrency string
	initMarketCmd := &cobra.Command{
		Use:   "init-market",
		Short: "Create a new lending market owned by the keypair",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			return operation.InitLendingMarket(ctx, s, operation.InitLendingMarketParams{
				QuoteCurrency: quoteCurrency,
			})
		}),
	}
	initMarketCmd.Flags().StringVar(&quoteCurrency, "quote-currency", "USD", "Quote currency, at most 32 bytes")
	rootCmd.AddCommand(initMarketCmd)

	var reserveMarket, reserveMint, reserveTokenProgram string
	initReserveCmd := &cobra.Command{
		Use:   "init-reserve",
		Short: "Create a reserve for a liquidity mint in a lending market",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			market, err := parsePubkey("market", reserveMarket)
			if err != nil {
				return nil, err
			}
			mint, err := parsePubkey("mint", reserveMint)
			if err != nil {
				return nil, err
			}
			p := operation.InitReserveParams{LendingMarket: market, LiquidityMint: mint}
			if reserveTokenProgram != "" {
				if p.LiquidityTokenProgram, err = parsePubkey("token-program", reserveTokenProgram); err != nil {
					return nil, err
				}
			}
			return operation.InitReserve(ctx, s, p)
		}),
	}
	initReserveCmd.Flags().StringVar(&reserveMarket, "market", "", "Lending market address")
	initReserveCmd.Flags().StringVar(&reserveMint, "mint", "", "Liquidity mint address")
	initReserveCmd.Flags().StringVar(&reserveTokenProgram, "token-program", "", "Liquidity token program (default SPL Token)")
	rootCmd.AddCommand(initReserveCmd)
}
