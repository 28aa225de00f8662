package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/data/kv"
	"github.com/wallet-ledger/internal/data/postgres"
	"github.com/wallet-ledger/internal/data/redis"
	"github.com/wallet-ledger/internal/logger"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
	"github.com/wallet-ledger/internal/platform/metrics"
	"github.com/wallet-ledger/internal/platform/persistence"
	"github.com/wallet-ledger/internal/platform/transport"
	"github.com/wallet-ledger/internal/seed"
	"github.com/wallet-ledger/internal/wallet_api"
	"github.com/wallet-ledger/internal/wallet_api/eventbus"
	"github.com/wallet-ledger/internal/wallet_api/scheduler"
	"github.com/wallet-ledger/internal/wallet_api/service"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Cancelled on SIGINT, SIGTERM or SIGQUIT
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig("wallet_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Wallet API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"store_backend", cfg.Store.Backend,
		"kafka_enabled", cfg.Kafka.Enabled,
	)

	// Initialize metrics
	var (
		collector      metrics.Collector = metrics.NoOpCollector{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPrometheusCollector(cfg.Metrics.Namespace)
		if err != nil {
			log.Error("Failed to initialize Prometheus metrics", "error", err)
			os.Exit(1)
		}
		collector = prom
		metricsHandler = prom.Handler()
	}

	// Initialize the key-value store behind a circuit breaker
	baseStore, closeBackend, err := openStore(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	store := kvstore.NewResilientStore(log, baseStore, kvstore.BreakerSettings{
		Timeout:          cfg.Store.OperationTimeout,
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		OpenTimeout:      cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}, collector)

	// Initialize event publishing
	events, closeEvents, err := newDispatcher(appCtx, log, cfg, collector)
	if err != nil {
		log.Error("Failed to initialize event publishing", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	data := seed.Default()
	accountRepo := kv.NewAccountRepository(log, store, data)
	transactionRepo := kv.NewTransactionRepository(log, store, data)
	contactRepo := kv.NewContactRepository(log, store, data)
	requestRepo := kv.NewMoneyRequestRepository(log, store, data)
	scheduleRepo := kv.NewScheduledTransferRepository(log, store, data)
	preferencesRepo := kv.NewPreferencesRepository(log, store)

	// Initialize services
	remote := transport.NewSimulator(log, transport.Options{
		Delay:       cfg.Transport.DefaultDelay,
		FailureRate: cfg.Transport.FailureRate,
	}, collector)

	accountService := service.NewAccountService(log, accountRepo, remote, events)
	transferService := service.NewTransferService(log, accountService, transactionRepo, contactRepo, remote, events, collector,
		service.TransferSettings{
			Delay:               cfg.Transport.TransferDelay,
			RequireKnownContact: cfg.Transfer.RequireKnownContact,
			RecentLimit:         cfg.Transfer.RecentLimit,
		})

	services := wallet_api.Services{
		Account:           accountService,
		Transfer:          transferService,
		Contact:           service.NewContactService(log, contactRepo, remote, events),
		MoneyRequest:      service.NewMoneyRequestService(log, requestRepo, remote, events, collector, service.Holder{ID: seed.AccountID, Name: seed.HolderName}),
		ScheduledTransfer: service.NewScheduledTransferService(log, scheduleRepo, remote, events),
		Preferences:       service.NewPreferencesService(log, preferencesRepo, remote, events),
	}

	// Initialize REST server
	server := wallet_api.NewServer(log, cfg, services, metricsHandler)
	log.Info("REST server initialized")

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		return server.Start()
	})

	if cfg.Scheduler.Enabled {
		executor := scheduler.NewExecutor(&cfg.Scheduler, scheduleRepo, transferService, log)
		g.Go(func() error {
			executor.Start(gCtx)
			return nil
		})
	}

	// Graceful shutdown once a signal arrives or a component fails
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Starting graceful shutdown...")
		return server.Stop(context.Background(), cfg.Server.ShutdownTimeout)
	})

	runErr := g.Wait()

	closeEvents()

	if err := store.Close(); err != nil {
		log.Error("Error closing store", "error", err)
	}
	closeBackend()

	if runErr != nil {
		log.Error("Wallet API shutdown completed with errors", "error", runErr)
		os.Exit(1)
	}
	log.Info("Wallet API shutdown completed successfully")
}

// openStore connects the configured backend. The returned func releases connections
// the store does not own.
func openStore(ctx context.Context, log *slog.Logger, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewKVStore(log, postgresDB, cfg.Store.KeyPrefix), postgresDB.Close, nil

	case config.StoreBackendRedis:
		store, err := redis.NewKVStore(log, &cfg.Redis, cfg.Store.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		log.Warn("Using in-memory store, data is lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil
	}
}

// newDispatcher publishes to Kafka when enabled and drops events otherwise.
// The returned func drains in-flight events and closes the producers.
func newDispatcher(ctx context.Context, log *slog.Logger, cfg *config.Config, collector metrics.Collector) (service.EventDispatcher, func(), error) {
	if !cfg.Kafka.Enabled {
		return eventbus.NewNoopDispatcher(log), func() {}, nil
	}

	eventProducer, err := producers.NewLedgerEventProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize ledger event producer: %w", err)
	}

	dlqProducer, err := producers.NewDLQProducer(ctx, log, &cfg.Kafka, cfg.Application.Name)
	if err != nil {
		_ = eventProducer.Close()
		return nil, nil, fmt.Errorf("failed to initialize DLQ producer: %w", err)
	}
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}

	dispatcher, err := eventbus.NewDispatcher(log, eventProducer, dlq, collector, eventbus.Config{
		PoolSize: cfg.WorkerPool.Size,
	})
	if err != nil {
		_ = eventProducer.Close()
		return nil, nil, err
	}

	return dispatcher, func() {
		dispatcher.Shutdown()
		if err := eventProducer.Close(); err != nil {
			log.Error("Error closing ledger event producer", "error", err)
		}
		if dlq != nil {
			if err := dlq.Close(); err != nil {
				log.Error("Error closing DLQ producer", "error", err)
			}
		}
	}, nil
}
