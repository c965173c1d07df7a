package main

import (
	"context"

	"github.com/spf13/cobra"

	"klend-client-sol/internal/logic/operation"
	"klend-client-sol/internal/svc"
)

func init() {
	var metaReferrer, metaLookupTable string
	initMetadataCmd := &cobra.Command{
		Use:   "init-user-metadata",
		Short: "Create the user metadata account for the keypair",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			referrer, err := parseOptionalPubkey("referrer", metaReferrer)
			if err != nil {
				return nil, err
			}
			p := operation.InitUserMetadataParams{Referrer: referrer}
			if metaLookupTable != "" {
				if p.UserLookupTable, err = parsePubkey("lookup-table", metaLookupTable); err != nil {
					return nil, err
				}
			}
			return operation.InitUserMetadata(ctx, s, p)
		}),
	}
	initMetadataCmd.Flags().StringVar(&metaReferrer, "referrer", "", "Referrer owner address")
	initMetadataCmd.Flags().StringVar(&metaLookupTable, "lookup-table", "", "User address lookup table")
	rootCmd.AddCommand(initMetadataCmd)

	var (
		obMarket, obSeed1, obSeed2, obReferrer string
		obTag, obId                            uint8
	)
	initObligationCmd := &cobra.Command{
		Use:   "init-obligation",
		Short: "Create an obligation (and user metadata when missing)",
		Args:  cobra.NoArgs,
		RunE: runWithService(func(ctx context.Context, s *svc.ServiceContext, _ []string) (any, error) {
			market, err := parsePubkey("market", obMarket)
			if err != nil {
				return nil, err
			}
			p := operation.InitObligationParams{LendingMarket: market, Tag: obTag, Id: obId}
			if obSeed1 != "" {
				if p.Seed1, err = parsePubkey("seed1", obSeed1); err != nil {
					return nil, err
				}
			}
			if obSeed2 != "" {
				if p.Seed2, err = parsePubkey("seed2", obSeed2); err != nil {
					return nil, err
				}
			}
			if p.Referrer, err = parseOptionalPubkey("referrer", obReferrer); err != nil {
				return nil, err
			}
			return operation.InitObligation(ctx, s, p)
		}),
	}
	initObligationCmd.Flags().StringVar(&obMarket, "market", "", "Lending market address")
	initObligationCmd.Flags().Uint8Var(&obTag, "tag", 0, "Obligation tag (0 = vanilla)")
	initObligationCmd.Flags().Uint8Var(&obId, "id", 0, "Obligation id")
	initObligationCmd.Flags().StringVar(&obSeed1, "seed1", "", "First seed account (default system program)")
	initObligationCmd.Flags().StringVar(&obSeed2, "seed2", "", "Second seed account (default system program)")
	initObligationCmd.Flags().StringVar(&obReferrer, "referrer", "", "Referrer used when user metadata is created")
	rootCmd.AddCommand(initObligationCmd)
}
