package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/data/mongo"
	"github.com/wallet-ledger/internal/ledger_auditor/components"
	"github.com/wallet-ledger/internal/ledger_auditor/consumer"
	"github.com/wallet-ledger/internal/logger"
	"github.com/wallet-ledger/internal/platform/messaging/consumers"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
	"github.com/wallet-ledger/internal/platform/metrics"
	"github.com/wallet-ledger/internal/platform/persistence"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Cancelled on SIGINT, SIGTERM or SIGQUIT
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_auditor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Auditor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	var collector metrics.Collector = metrics.NoOpCollector{}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPrometheusCollector(cfg.Metrics.Namespace)
		if err != nil {
			log.Error("Failed to initialize Prometheus metrics", "error", err)
			os.Exit(1)
		}
		collector = prom

		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		metricsServer = &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:     mux,
			ReadTimeout: cfg.Server.ReadTimeout,
		}
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongoDB.EnsureAuditIndexes(appCtx); err != nil {
		log.Error("Failed to ensure audit indexes", "error", err)
		os.Exit(1)
	}

	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka, cfg.Application.Name)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}

	auditService, shutdownPool := components.CreateAuditService(auditRepo, dlq, collector, log, cfg)

	eventHandler := consumer.NewLedgerEventHandler(log, auditService, dlq)
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, dlq)

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.LedgerTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Run(gCtx, eventHandler.HandleMessage); err != nil {
			return fmt.Errorf("kafka consumer error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			log.Info("Starting metrics server", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	serviceErr := g.Wait()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")
	shutdownPool()

	if dlq != nil {
		if err := dlq.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Ledger Auditor shutdown completed with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Ledger Auditor shutdown completed successfully")
}
