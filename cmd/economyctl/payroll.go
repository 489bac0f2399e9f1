package main

import (
	"context"

	"github.com/riskibarqy/career-league/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) payrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Charge round wages",
	}

	var (
		leagueID string
		round    int
	)
	charge := &cobra.Command{
		Use:   "charge",
		Short: "Charge one payroll round for every club in a league",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd, func(ctx context.Context, svc *app.Services) (any, error) {
				// Partial results are printed even when some clubs failed.
				return svc.Payroll.ChargeRound(ctx, leagueID, round)
			})
		},
	}
	charge.Flags().StringVar(&leagueID, "league", "", "league id")
	charge.Flags().IntVar(&round, "round", 0, "round number")
	_ = charge.MarkFlagRequired("league")
	_ = charge.MarkFlagRequired("round")

	cmd.AddCommand(charge)
	return cmd
}
