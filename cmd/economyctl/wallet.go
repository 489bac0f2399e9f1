package main

import (
	"context"

	"github.com/riskibarqy/career-league/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect club wallets",
	}

	var leagueID, clubID string
	bind := func(sub *cobra.Command) {
		sub.Flags().StringVar(&leagueID, "league", "", "league id")
		sub.Flags().StringVar(&clubID, "club", "", "club id")
		_ = sub.MarkFlagRequired("league")
		_ = sub.MarkFlagRequired("club")
	}

	balance := &cobra.Command{
		Use:   "balance",
		Short: "Print a club balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd, func(ctx context.Context, svc *app.Services) (any, error) {
				w, err := svc.Wallet.GetBalance(ctx, leagueID, clubID)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"league_id": w.LeagueID,
					"club_id":   w.ClubID,
					"balance":   w.Balance,
				}, nil
			})
		},
	}
	bind(balance)

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare a stored balance with the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd, func(ctx context.Context, svc *app.Services) (any, error) {
				report, err := svc.Wallet.Reconcile(ctx, leagueID, clubID)
				if err != nil {
					return nil, err
				}
				return report, nil
			})
		},
	}
	bind(reconcile)

	cmd.AddCommand(balance, reconcile)
	return cmd
}
