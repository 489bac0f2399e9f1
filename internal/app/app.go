package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/career-league/internal/config"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/txn"
	"github.com/riskibarqy/career-league/internal/infrastructure/eventbus"
	"github.com/riskibarqy/career-league/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/career-league/internal/infrastructure/lock"
	cacherepo "github.com/riskibarqy/career-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/career-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/career-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/career-league/internal/platform/cache"
	idgen "github.com/riskibarqy/career-league/internal/platform/id"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/resilience"
	"github.com/riskibarqy/career-league/internal/usecase"
)

// Services is the wired economy engine shared by the API, the worker and the CLI.
type Services struct {
	Catalog  *usecase.CatalogService
	Wallet   *usecase.WalletService
	Transfer *usecase.TransferService
	Payroll  *usecase.PayrollService
	Auction  *usecase.AuctionService

	// SweepLock is nil unless Redis is enabled.
	SweepLock *lock.RedisLock

	closers []func() error
}

// Close releases storage and broker connections in reverse order of creation.
func (s *Services) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

type storage struct {
	leagues league.Repository
	players player.Repository
	uow     txn.UnitOfWork
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	svc := &Services{}
	st, err := buildStorage(ctx, cfg, logger, svc)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	events, err := buildEventPublisher(cfg, logger, svc)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	queue := buildJobQueue(cfg, logger)

	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		svc.closers = append(svc.closers, client.Close)
		svc.SweepLock = lock.NewRedisLock(client)
	}

	ids := idgen.NewUUIDGenerator()
	svc.Catalog = usecase.NewCatalogService(st.leagues, st.players, st.uow)
	svc.Wallet = usecase.NewWalletService(st.leagues, st.uow, logger.Named("wallet"))
	svc.Transfer = usecase.NewTransferService(st.leagues, st.players, st.uow, ids, events, logger.Named("transfer"))
	svc.Payroll = usecase.NewPayrollService(st.leagues, st.uow, events, usecase.PayrollConfig{
		Concurrency: cfg.PayrollConcurrency,
	}, logger.Named("payroll"))
	svc.Auction = usecase.NewAuctionService(st.leagues, st.players, st.uow, ids, queue, events, usecase.AuctionConfig{
		DefaultDuration: cfg.AuctionDefaultDuration,
		SweepWorkers:    cfg.AuctionSweepWorkers,
	}, logger.Named("auction"))

	logger.Info("economy services ready",
		"storage", cfg.Storage,
		"cache_enabled", cfg.CacheEnabled,
		"qstash_enabled", cfg.QStashEnabled,
		"kafka_enabled", cfg.KafkaEnabled,
		"redis_enabled", cfg.RedisEnabled,
	)
	return svc, nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logging.Logger, svc *Services) (storage, error) {
	var st storage
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return storage{}, err
		}
		svc.closers = append(svc.closers, db.Close)
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return storage{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		st = postgresStorage(db, cfg, logger)
	default:
		st = storage{
			leagues: memory.NewLeagueRepository(memory.SeedLeagues()),
			players: memory.NewPlayerRepository(memory.SeedPlayers()),
			uow:     memory.NewStore(),
		}
	}

	if cfg.CacheEnabled {
		leagueCache := cache.NewStore(cfg.CacheTTL)
		playerCache := cache.NewStore(cfg.CacheTTL)
		st.leagues = cacherepo.NewLeagueRepository(st.leagues, leagueCache)
		st.players = cacherepo.NewPlayerRepository(st.players, playerCache)
	}
	return st, nil
}

func postgresStorage(db *sqlx.DB, cfg config.Config, logger *logging.Logger) storage {
	return storage{
		leagues: postgres.NewLeagueRepository(db),
		players: postgres.NewPlayerRepository(db),
		uow:     postgres.NewUnitOfWork(db, cfg.DBTxMaxAttempts, logger.Named("uow")),
	}
}

func buildEventPublisher(cfg config.Config, logger *logging.Logger, svc *Services) (usecase.EventPublisher, error) {
	if !cfg.KafkaEnabled {
		return usecase.NewNoopEventPublisher(), nil
	}
	publisher, err := eventbus.NewKafkaPublisher(eventbus.Config{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		WriteTimeout:   cfg.KafkaWriteTimeout,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}, logger.Named("kafka"))
	if err != nil {
		return nil, fmt.Errorf("build kafka publisher: %w", err)
	}
	svc.closers = append(svc.closers, publisher.Close)
	return publisher, nil
}

func buildJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}
	return jobqueue.NewQStashQueue(jobqueue.Config{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger.Named("qstash"))
}

func NewHTTPServer(cfg config.Config, svc *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(svc.Catalog, svc.Wallet, svc.Transfer, svc.Payroll, svc.Auction, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalAPIToken:   cfg.InternalAPIToken,
		InternalJobToken:   cfg.InternalJobToken,
		MetricsEnabled:     cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
