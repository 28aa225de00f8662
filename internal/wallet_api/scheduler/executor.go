// Package scheduler runs due scheduled transfers through the transfer service.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// Executor materializes scheduled transfers whose date has passed
type Executor struct {
	scheduleRepo schedule.Repository
	transfers    service.TransferService
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewExecutor(
	cfg *config.SchedulerConfig,
	scheduleRepo schedule.Repository,
	transfers service.TransferService,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		scheduleRepo: scheduleRepo,
		transfers:    transfers,
		logger:       logger.With("component", "scheduled_transfer_executor"),
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
		now:          time.Now,
	}
}

// Start runs a batch on every tick until ctx is canceled
func (e *Executor) Start(ctx context.Context) {
	e.logger.Info("Starting scheduled transfer executor",
		"poll_interval", e.pollInterval.String(),
		"batch_size", e.batchSize,
	)
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Scheduled transfer executor stopping due to context cancellation.")
			return
		case <-ticker.C:
			e.logger.Debug("Executor tick: looking for due transfers")
			if _, err := e.RunOnce(ctx); err != nil {
				e.logger.Error("Error during scheduled transfer batch", "error", err)
			}
		}
	}
}

// RunOnce executes up to batchSize due transfers and returns how many succeeded.
// A failed transfer keeps its schedule and is retried on the next run.
func (e *Executor) RunOnce(ctx context.Context) (int, error) {
	transfers, err := e.scheduleRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list scheduled transfers: %w", err)
	}

	now := e.now().UTC()
	due := make([]schedule.ScheduledTransfer, 0)
	for _, st := range transfers {
		if st.IsDue(now) {
			due = append(due, st)
		}
		if e.batchSize > 0 && len(due) == e.batchSize {
			break
		}
	}

	if len(due) == 0 {
		e.logger.Debug("No scheduled transfers due.")
		return 0, nil
	}
	e.logger.Info("Found due scheduled transfers", "count", len(due))

	executed := 0
	for i := range due {
		st := &due[i]
		logger := e.logger.With("scheduled_transfer_id", st.ID, "contact_id", st.ContactID)
		runCtx := shared.WithCorrelationID(ctx, "scheduled-"+st.ID)

		resp, err := e.transfers.ProcessTransfer(runCtx, ledger.TransferRequest{
			ContactID:   st.ContactID,
			ContactName: st.ContactName,
			Amount:      st.Amount,
			Reason:      st.Reason,
			Comment:     st.Comment,
		})
		if err != nil {
			logger.Warn("Scheduled transfer failed, will retry", "error", err)
			continue
		}

		executed++
		advanced, err := e.scheduleRepo.Update(ctx, st.ID, func(current *schedule.ScheduledTransfer) error {
			return advance(current, st, e.now().UTC())
		})
		if err != nil {
			if errors.Is(err, errScheduleChanged) {
				logger.Info("Scheduled transfer executed, schedule changed meanwhile and was left as is",
					"transfer_id", resp.TransferID,
				)
				continue
			}
			logger.Error("Transfer executed but schedule could not be advanced",
				"transfer_id", resp.TransferID,
				"error", err,
			)
			continue
		}

		logger.Info("Scheduled transfer executed",
			"transfer_id", resp.TransferID,
			"next_date", advanced.ScheduledDate,
			"is_active", advanced.IsActive,
		)
	}
	return executed, nil
}

// errScheduleChanged aborts advancing a schedule that was cancelled or rescheduled while its
// transfer ran
var errScheduleChanged = errors.New("scheduled transfer changed during execution")

// advance moves current past the run of ran. A cancel or a new date set during the run wins;
// other edits are kept and the date still advances.
func advance(current, ran *schedule.ScheduledTransfer, now time.Time) error {
	if !current.IsActive || !current.ScheduledDate.Equal(ran.ScheduledDate) {
		return errScheduleChanged
	}
	current.MarkExecuted(now)
	return nil
}
