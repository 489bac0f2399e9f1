package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/career-league/internal/config"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		HTTPAddr:           ":0",
		Storage:            config.StorageMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		PayrollConcurrency: 2,
	}
}

func TestNewServices_MemoryStorage(t *testing.T) {
	ctx := context.Background()
	svc, err := NewServices(ctx, memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, svc.Close()) })

	require.Nil(t, svc.SweepLock)

	w, created, err := svc.Wallet.OpenWallet(ctx, memory.LeagueIDPremierCareer, "club-a")
	require.NoError(t, err)
	require.True(t, created)
	require.EqualValues(t, 50_000_000, w.Balance)
}

func TestNewServices_KafkaRequiresBrokers(t *testing.T) {
	cfg := memoryConfig()
	cfg.KafkaEnabled = true

	_, err := NewServices(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	svc, err := NewServices(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	cfg.HTTPAddr = ""
	_, err = NewHTTPServer(cfg, svc, logging.NewNop())
	require.Error(t, err)

	cfg.HTTPAddr = ":8080"
	srv, err := NewHTTPServer(cfg, svc, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, srv.Handler)
}
