package components

import (
	"log/slog"

	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/ledger_auditor/service"
	"github.com/wallet-ledger/internal/platform/messaging/producers"
	"github.com/wallet-ledger/internal/platform/metrics"
)

// CreateAuditService creates an AuditService with all its dependencies, on a worker pool
// when one can be started. The returned shutdown func releases the pool.
func CreateAuditService(
	auditRepo ledger.AuditRepository,
	dlq producers.DeadLetterPublisher,
	collector metrics.Collector,
	logger *slog.Logger,
	cfg *config.Config,
) (service.AuditService, func()) {
	validator := NewEventValidator(auditRepo, logger)
	failureRecorder := NewFailureRecorder(dlq, logger)

	baseService := service.NewAuditService(
		auditRepo,
		validator,
		failureRecorder,
		collector,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolAuditService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService, func() {}
	}

	logger.Info("Created worker pool audit service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService, workerPoolService.Shutdown
}
