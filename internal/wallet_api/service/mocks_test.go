package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/wallet-ledger/internal/data/kv"
	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/kvstore"
	"github.com/wallet-ledger/internal/platform/transport"
	"github.com/wallet-ledger/internal/seed"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTransport returns an instant simulator; failureRate 1 fails every call
func newTransport(failureRate float64) *transport.Simulator {
	return transport.NewSimulator(newTestLogger(), transport.Options{FailureRate: failureRate}, nil)
}

// repos are key-value repositories over a fresh in-memory store
type repos struct {
	store        *kvstore.MemoryStore
	accounts     *kv.AccountRepository
	contacts     *kv.ContactRepository
	transactions *kv.TransactionRepository
	requests     *kv.MoneyRequestRepository
	schedules    *kv.ScheduledTransferRepository
	preferences  *kv.PreferencesRepository
}

func newRepos() repos {
	logger := newTestLogger()
	store := kvstore.NewMemoryStore()
	data := seed.Default()
	return repos{
		store:        store,
		accounts:     kv.NewAccountRepository(logger, store, data),
		contacts:     kv.NewContactRepository(logger, store, data),
		transactions: kv.NewTransactionRepository(logger, store, data),
		requests:     kv.NewMoneyRequestRepository(logger, store, data),
		schedules:    kv.NewScheduledTransferRepository(logger, store, data),
		preferences:  kv.NewPreferencesRepository(logger, store),
	}
}

type MockEventDispatcher struct {
	mock.Mock
}

var _ EventDispatcher = (*MockEventDispatcher)(nil)

func (m *MockEventDispatcher) Dispatch(ctx context.Context, eventType shared.EventType, aggregateID string, payload interface{}) {
	m.Called(ctx, eventType, aggregateID, payload)
}

// dispatchAll accepts any event
func dispatchAll() *MockEventDispatcher {
	m := new(MockEventDispatcher)
	m.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	return m
}

type MockAccountRepository struct {
	mock.Mock
}

var _ account.Repository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) Get(ctx context.Context) (*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) ListCards(ctx context.Context) ([]account.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Card), args.Error(1)
}

func (m *MockAccountRepository) SaveCards(ctx context.Context, cards []account.Card) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

var _ ledger.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) Prepend(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]ledger.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

var _ contact.Repository = (*MockContactRepository)(nil)

func (m *MockContactRepository) List(ctx context.Context) ([]contact.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) AddRecentTransfer(ctx context.Context, id string, rt contact.RecentTransfer, limit int) (*contact.Contact, error) {
	args := m.Called(ctx, id, rt, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

type MockPreferencesRepository struct {
	mock.Mock
}

var _ profile.Repository = (*MockPreferencesRepository)(nil)

func (m *MockPreferencesRepository) Get(ctx context.Context) (profile.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(profile.Preferences), args.Error(1)
}

func (m *MockPreferencesRepository) Save(ctx context.Context, prefs profile.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}
