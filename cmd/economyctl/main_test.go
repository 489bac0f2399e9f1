package main

import (
	"bytes"
	"context"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/career-league/internal/app"
	"github.com/riskibarqy/career-league/internal/config"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *app.Services {
	t.Helper()
	svc, err := app.NewServices(context.Background(), config.Config{Storage: config.StorageMemory}, logging.NewNop())
	require.NoError(t, err)
	return svc
}

func runCLI(t *testing.T, svc *app.Services, args ...string) (map[string]any, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd(func(context.Context) (*app.Services, error) { return svc, nil }, &out)
	root.SetArgs(args)
	err := root.Execute()

	var body map[string]any
	if out.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(out.Bytes(), &body), "out=%s", out.String())
	}
	return body, err
}

func TestWalletBalanceAndReconcile(t *testing.T) {
	svc := newTestServices(t)
	_, _, err := svc.Wallet.OpenWallet(context.Background(), memory.LeagueIDPremierCareer, "club-a")
	require.NoError(t, err)

	body, err := runCLI(t, svc, "wallet", "balance", "--league", memory.LeagueIDPremierCareer, "--club", "club-a")
	require.NoError(t, err)
	require.EqualValues(t, 50_000_000, body["balance"])

	body, err = runCLI(t, svc, "wallet", "reconcile", "--league", memory.LeagueIDPremierCareer, "--club", "club-a")
	require.NoError(t, err)
	require.Equal(t, true, body["consistent"])
}

func TestWalletBalanceUnknownClub(t *testing.T) {
	svc := newTestServices(t)

	_, err := runCLI(t, svc, "wallet", "balance", "--league", memory.LeagueIDPremierCareer, "--club", "ghost")
	require.Error(t, err)
}

func TestPayrollChargeRequiresFlags(t *testing.T) {
	svc := newTestServices(t)

	_, err := runCLI(t, svc, "payroll", "charge", "--league", memory.LeagueIDPremierCareer)
	require.Error(t, err)
}

func TestPayrollChargeEmptyLeague(t *testing.T) {
	svc := newTestServices(t)

	body, err := runCLI(t, svc, "payroll", "charge", "--league", memory.LeagueIDPremierCareer, "--round", "1")
	require.NoError(t, err)
	require.Equal(t, memory.LeagueIDPremierCareer, body["league_id"])
}

func TestAuctionsSweepNothingDue(t *testing.T) {
	svc := newTestServices(t)

	body, err := runCLI(t, svc, "auctions", "sweep", "--limit", "10")
	require.NoError(t, err)
	require.EqualValues(t, 0, body["processed"])
}

func TestAuctionsSettleRequiresID(t *testing.T) {
	svc := newTestServices(t)

	_, err := runCLI(t, svc, "auctions", "settle")
	require.Error(t, err)
}
