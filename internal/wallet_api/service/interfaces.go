package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/transport"
)

// Transport is the remote API every operation goes through before touching storage.
// *transport.Simulator satisfies it.
type Transport interface {
	Get(ctx context.Context, endpoint string, opts ...transport.CallOption) transport.Response
	Post(ctx context.Context, endpoint string, body interface{}, opts ...transport.CallOption) transport.Response
	Put(ctx context.Context, endpoint string, body interface{}, opts ...transport.CallOption) transport.Response
	Delete(ctx context.Context, endpoint string, opts ...transport.CallOption) transport.Response
}

// EventDispatcher hands ledger events to the event stream without blocking the caller
type EventDispatcher interface {
	Dispatch(ctx context.Context, eventType shared.EventType, aggregateID string, payload interface{})
}

// Holder identifies the account owner, the requester of every money request created here
type Holder struct {
	ID   string
	Name string
}

// AccountService defines the interface for account and card operations
type AccountService interface {
	GetAccount(ctx context.Context) (*account.Account, error)

	// UpdateBalance overwrites the balance. Negative balances are accepted.
	UpdateBalance(ctx context.Context, newBalance decimal.Decimal) (*account.Account, error)

	// AdjustBalance applies a signed delta without a transport call; transfers use it
	AdjustBalance(ctx context.Context, delta decimal.Decimal) (*account.Account, error)

	GetCards(ctx context.Context) ([]account.Card, error)

	// ToggleCardStatus flips a card between active and frozen
	// Returns ErrCardNotFound if the card doesn't exist
	ToggleCardStatus(ctx context.Context, cardID string) (*account.Card, error)
}

// TransferService defines the interface for transfers and the transaction log
type TransferService interface {
	// ProcessTransfer debits the account, logs the transaction and updates the contact history
	ProcessTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResponse, error)

	// GetTransferHistory returns the newest transfer transactions, at most limit of them
	GetTransferHistory(ctx context.Context, limit int) ([]ledger.Transaction, error)

	// ListTransactions returns the newest transactions of every type, at most limit of them
	ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error)
}

// NewContactInput holds the fields of a contact to add
type NewContactInput struct {
	Name             string
	Email            string
	Phone            string
	HasWalletAccount bool
}

// ContactService defines the interface for contact operations
type ContactService interface {
	ListContacts(ctx context.Context) ([]contact.Contact, error)
	GetContact(ctx context.Context, id string) (*contact.Contact, error)
	AddContact(ctx context.Context, input NewContactInput) (*contact.Contact, error)

	// SearchContacts ranks contacts by how closely their name matches query,
	// ignoring case and accents
	SearchContacts(ctx context.Context, query string, limit int) ([]contact.Contact, error)
}

// NewMoneyRequestInput holds the fields of a request sent to a contact
type NewMoneyRequestInput struct {
	ContactID   string
	ContactName string
	Amount      decimal.Decimal
	Description string
}

// MoneyRequestService defines the interface for money request operations
type MoneyRequestService interface {
	ListRequests(ctx context.Context) ([]request.MoneyRequest, error)
	CreateRequest(ctx context.Context, input NewMoneyRequestInput) (*request.MoneyRequest, error)

	// AcceptRequest and RejectRequest only change the status; no money moves
	AcceptRequest(ctx context.Context, id string) (*request.MoneyRequest, error)
	RejectRequest(ctx context.Context, id string) (*request.MoneyRequest, error)

	// CancelRequest removes a pending request created in this session
	// Returns ErrMoneyRequestNotFound for built-in requests
	CancelRequest(ctx context.Context, id string) error
}

// NewScheduledTransferInput holds the fields of a transfer to schedule
type NewScheduledTransferInput struct {
	ContactID     string
	ContactName   string
	Amount        decimal.Decimal
	ScheduledDate time.Time
	Frequency     schedule.Frequency
	Reason        string
	Comment       string
}

// ScheduledTransferService defines the interface for scheduled transfer operations
type ScheduledTransferService interface {
	ListScheduledTransfers(ctx context.Context) ([]schedule.ScheduledTransfer, error)
	CreateScheduledTransfer(ctx context.Context, input NewScheduledTransferInput) (*schedule.ScheduledTransfer, error)
	UpdateScheduledTransfer(ctx context.Context, id string, patch schedule.Patch) (*schedule.ScheduledTransfer, error)

	// CancelScheduledTransfer deactivates the transfer; it stays listed
	CancelScheduledTransfer(ctx context.Context, id string) (*schedule.ScheduledTransfer, error)
}

// PreferencesService defines the interface for user preferences
type PreferencesService interface {
	GetPreferences(ctx context.Context) (profile.Preferences, error)
	UpdatePreferences(ctx context.Context, prefs profile.Preferences) (profile.Preferences, error)
}
