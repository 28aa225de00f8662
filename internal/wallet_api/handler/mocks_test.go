package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context) (*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) UpdateBalance(ctx context.Context, newBalance decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, newBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) AdjustBalance(ctx context.Context, delta decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetCards(ctx context.Context) ([]account.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Card), args.Error(1)
}

func (m *MockAccountService) ToggleCardStatus(ctx context.Context, cardID string) (*account.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Card), args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) ProcessTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransferResponse), args.Error(1)
}

func (m *MockTransferService) GetTransferHistory(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransferService) ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactService) GetContact(ctx context.Context, id string) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactService) AddContact(ctx context.Context, input service.NewContactInput) (*contact.Contact, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactService) SearchContacts(ctx context.Context, query string, limit int) ([]contact.Contact, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contact.Contact), args.Error(1)
}

type MockMoneyRequestService struct {
	mock.Mock
}

func (m *MockMoneyRequestService) ListRequests(ctx context.Context) ([]request.MoneyRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]request.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) CreateRequest(ctx context.Context, input service.NewMoneyRequestInput) (*request.MoneyRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) AcceptRequest(ctx context.Context, id string) (*request.MoneyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) RejectRequest(ctx context.Context, id string) (*request.MoneyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) CancelRequest(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockScheduledTransferService struct {
	mock.Mock
}

func (m *MockScheduledTransferService) ListScheduledTransfers(ctx context.Context) ([]schedule.ScheduledTransfer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.ScheduledTransfer), args.Error(1)
}

func (m *MockScheduledTransferService) CreateScheduledTransfer(ctx context.Context, input service.NewScheduledTransferInput) (*schedule.ScheduledTransfer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.ScheduledTransfer), args.Error(1)
}

func (m *MockScheduledTransferService) UpdateScheduledTransfer(ctx context.Context, id string, patch schedule.Patch) (*schedule.ScheduledTransfer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.ScheduledTransfer), args.Error(1)
}

func (m *MockScheduledTransferService) CancelScheduledTransfer(ctx context.Context, id string) (*schedule.ScheduledTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.ScheduledTransfer), args.Error(1)
}

type MockPreferencesService struct {
	mock.Mock
}

func (m *MockPreferencesService) GetPreferences(ctx context.Context) (profile.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(profile.Preferences), args.Error(1)
}

func (m *MockPreferencesService) UpdatePreferences(ctx context.Context, prefs profile.Preferences) (profile.Preferences, error) {
	args := m.Called(ctx, prefs)
	return args.Get(0).(profile.Preferences), args.Error(1)
}

var (
	_ service.AccountService           = (*MockAccountService)(nil)
	_ service.TransferService          = (*MockTransferService)(nil)
	_ service.ContactService           = (*MockContactService)(nil)
	_ service.MoneyRequestService      = (*MockMoneyRequestService)(nil)
	_ service.ScheduledTransferService = (*MockScheduledTransferService)(nil)
	_ service.PreferencesService       = (*MockPreferencesService)(nil)
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// perform sends body as JSON when it is not nil
func perform(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope[T any](t *testing.T, rr *httptest.ResponseRecorder) shared.Envelope[T] {
	t.Helper()

	var env shared.Envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "Failed to unmarshal response envelope")
	return env
}
