package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/data/kv"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/seed"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

type MockTransferService struct {
	mock.Mock
}

var _ service.TransferService = (*MockTransferService)(nil)

func (m *MockTransferService) ProcessTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransferResponse), args.Error(1)
}

func (m *MockTransferService) GetTransferHistory(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransferService) ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func newExecutor(t *testing.T, transfers service.TransferService, now time.Time) (*Executor, *kv.ScheduledTransferRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := kv.NewScheduledTransferRepository(logger, kvstore.NewMemoryStore(), seed.Default())
	e := NewExecutor(&config.SchedulerConfig{Enabled: true, PollingInterval: time.Minute, BatchSize: 10}, repo, transfers, logger)
	e.now = func() time.Time { return now }
	return e, repo
}

func TestExecutor_RunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)

	t.Run("ExecutesDueTransfers", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, repo := newExecutor(t, transfers, now)

		once := &schedule.ScheduledTransfer{
			ID: "st-once", ContactID: "1", ContactName: "Ana Martínez", Amount: decimal.NewFromInt(20),
			ScheduledDate: now.Add(-time.Hour), Frequency: schedule.FrequencyOnce, Reason: "Regalo", IsActive: true,
		}
		future := &schedule.ScheduledTransfer{
			ID: "st-future", ContactID: "1", ContactName: "Ana Martínez", Amount: decimal.NewFromInt(20),
			ScheduledDate: now.Add(time.Hour), Frequency: schedule.FrequencyDaily, Reason: "Regalo", IsActive: true,
		}
		require.NoError(t, repo.Save(ctx, once))
		require.NoError(t, repo.Save(ctx, future))

		transfers.On("ProcessTransfer", mock.MatchedBy(func(c context.Context) bool {
			return shared.CorrelationIDFrom(c) == "scheduled-sched-1"
		}), mock.MatchedBy(func(req ledger.TransferRequest) bool {
			return req.ContactID == "2" && req.Amount.Equal(decimal.NewFromInt(1200)) && req.Reason == "Alquiler"
		})).Return(&ledger.TransferResponse{TransferID: "tr-1"}, nil).Once()
		transfers.On("ProcessTransfer", mock.Anything, mock.MatchedBy(func(req ledger.TransferRequest) bool {
			return req.ContactID == "1"
		})).Return(&ledger.TransferResponse{TransferID: "tr-2"}, nil).Once()

		executed, err := executor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, executed)

		monthly, err := repo.GetByID(ctx, "sched-1")
		require.NoError(t, err)
		assert.True(t, monthly.IsActive)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), monthly.ScheduledDate)
		require.NotNil(t, monthly.LastExecutedAt)

		done, err := repo.GetByID(ctx, "st-once")
		require.NoError(t, err)
		assert.False(t, done.IsActive)

		pending, err := repo.GetByID(ctx, "st-future")
		require.NoError(t, err)
		assert.Nil(t, pending.LastExecutedAt)
		transfers.AssertExpectations(t)
	})

	t.Run("FailureKeepsSchedule", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, repo := newExecutor(t, transfers, now)

		transfers.On("ProcessTransfer", mock.Anything, mock.Anything).Return(nil, shared.ErrTransportFault{Method: "POST", Endpoint: "/transfers"}).Once()

		executed, err := executor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, executed)

		st, err := repo.GetByID(ctx, "sched-1")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), st.ScheduledDate)
		assert.Nil(t, st.LastExecutedAt)
	})

	t.Run("CancelledDuringRunStaysCancelled", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, repo := newExecutor(t, transfers, now)

		transfers.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			_, err := repo.Update(ctx, "sched-1", func(st *schedule.ScheduledTransfer) error {
				st.Cancel(now)
				return nil
			})
			require.NoError(t, err)
		}).Return(&ledger.TransferResponse{TransferID: "tr-1"}, nil).Once()

		executed, err := executor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, executed)

		st, err := repo.GetByID(ctx, "sched-1")
		require.NoError(t, err)
		assert.False(t, st.IsActive)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), st.ScheduledDate)
		assert.Nil(t, st.LastExecutedAt)
	})

	t.Run("EditDuringRunIsKept", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, repo := newExecutor(t, transfers, now)

		amount := decimal.NewFromInt(1300)
		transfers.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			_, err := repo.Update(ctx, "sched-1", func(st *schedule.ScheduledTransfer) error {
				st.Apply(schedule.Patch{Amount: &amount}, now)
				return nil
			})
			require.NoError(t, err)
		}).Return(&ledger.TransferResponse{TransferID: "tr-1"}, nil).Once()

		_, err := executor.RunOnce(ctx)
		require.NoError(t, err)

		st, err := repo.GetByID(ctx, "sched-1")
		require.NoError(t, err)
		assert.True(t, st.IsActive)
		assert.Equal(t, "1300", st.Amount.String())
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), st.ScheduledDate)
	})

	t.Run("RescheduledDuringRunKeepsNewDate", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, repo := newExecutor(t, transfers, now)

		moved := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
		transfers.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			_, err := repo.Update(ctx, "sched-1", func(st *schedule.ScheduledTransfer) error {
				st.Apply(schedule.Patch{ScheduledDate: &moved}, now)
				return nil
			})
			require.NoError(t, err)
		}).Return(&ledger.TransferResponse{TransferID: "tr-1"}, nil).Once()

		_, err := executor.RunOnce(ctx)
		require.NoError(t, err)

		st, err := repo.GetByID(ctx, "sched-1")
		require.NoError(t, err)
		assert.True(t, st.IsActive)
		assert.Equal(t, moved, st.ScheduledDate)
	})

	t.Run("NothingDue", func(t *testing.T) {
		transfers := new(MockTransferService)
		executor, _ := newExecutor(t, transfers, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		executed, err := executor.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, executed)
		transfers.AssertNotCalled(t, "ProcessTransfer", mock.Anything, mock.Anything)
	})

	t.Run("ListFailure", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := kv.NewScheduledTransferRepository(logger, failingStore{}, seed.Default())
		executor := NewExecutor(&config.SchedulerConfig{PollingInterval: time.Minute, BatchSize: 10}, repo, new(MockTransferService), logger)

		_, err := executor.RunOnce(ctx)
		assert.Error(t, err)
	})
}

func TestExecutor_Start_StopsOnCancel(t *testing.T) {
	executor, _ := newExecutor(t, new(MockTransferService), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	executor.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		executor.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not stop after cancel")
	}
}

type failingStore struct{}

var errUnavailable = errors.New("store unavailable")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errUnavailable }
func (failingStore) Set(context.Context, string, []byte) error   { return errUnavailable }
func (failingStore) Remove(context.Context, string) error        { return errUnavailable }
func (failingStore) Clear(context.Context) error                 { return errUnavailable }
func (failingStore) Name() string                                { return "failing" }
func (failingStore) Close() error                                { return nil }
