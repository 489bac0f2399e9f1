package main

import (
	"context"

	"github.com/riskibarqy/career-league/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) auctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auctions",
		Short: "Settle auctions by hand",
	}

	var limit int
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Settle every expired auction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd, func(ctx context.Context, svc *app.Services) (any, error) {
				return svc.Auction.SweepExpired(ctx, limit)
			})
		},
	}
	sweep.Flags().IntVar(&limit, "limit", 100, "maximum auctions to settle")

	settle := &cobra.Command{
		Use:   "settle <auction-id>",
		Short: "Settle one auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd, func(ctx context.Context, svc *app.Services) (any, error) {
				result, err := svc.Auction.Settle(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return result, nil
			})
		},
	}

	cmd.AddCommand(sweep, settle)
	return cmd
}
