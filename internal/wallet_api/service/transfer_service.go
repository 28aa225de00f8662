package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/shared"
	"github.com/wallet-ledger/internal/platform/metrics"
	"github.com/wallet-ledger/internal/platform/transport"
)

// TransferSettings tunes transfer processing
type TransferSettings struct {
	// Delay is the simulated latency of a transfer call
	Delay time.Duration
	// RequireKnownContact rejects transfers to ids missing from the contact list
	RequireKnownContact bool
	// RecentLimit caps each contact's recent-transfer history
	RecentLimit int
}

// TransferServiceImpl implements the TransferService interface
type TransferServiceImpl struct {
	accounts    AccountService
	txRepo      ledger.TransactionRepository
	contactRepo contact.Repository
	transport   Transport
	events      EventDispatcher
	metrics     metrics.Collector
	settings    TransferSettings
	logger      *slog.Logger
	now         func() time.Time
}

// NewTransferService creates a new transfer service. A nil collector disables metrics.
func NewTransferService(
	logger *slog.Logger,
	accounts AccountService,
	txRepo ledger.TransactionRepository,
	contactRepo contact.Repository,
	transport Transport,
	events EventDispatcher,
	collector metrics.Collector,
	settings TransferSettings,
) TransferService {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if settings.RecentLimit <= 0 {
		settings.RecentLimit = contact.DefaultRecentLimit
	}
	return &TransferServiceImpl{
		accounts:    accounts,
		txRepo:      txRepo,
		contactRepo: contactRepo,
		transport:   transport,
		events:      events,
		metrics:     collector,
		settings:    settings,
		logger:      logger.With("component", "transfer_service"),
		now:         time.Now,
	}
}

// ProcessTransfer sends money to a contact. After the simulated call succeeds the balance is
// debited, the transaction is prepended to the log and the contact's history is updated.
// If a later step fails, the earlier ones are compensated before the error is returned.
func (s *TransferServiceImpl) ProcessTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.TransferResponse, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordTransfer(metrics.OutcomeInvalid, 0)
		return nil, err
	}

	recipient, err := s.lookupContact(ctx, req.ContactID)
	if err != nil {
		s.metrics.RecordTransfer(metrics.OutcomeFailure, 0)
		return nil, err
	}
	if recipient == nil && s.settings.RequireKnownContact {
		s.metrics.RecordTransfer(metrics.OutcomeInvalid, 0)
		return nil, contact.ErrContactNotFound{ContactID: req.ContactID}
	}

	if err := s.transport.Post(ctx, "/transfers", req, transport.WithDelay(s.settings.Delay)).Err(); err != nil {
		s.logger.Warn("Transfer call failed", "contact_id", req.ContactID, "error", err)
		s.metrics.RecordTransfer(metrics.OutcomeFailure, 0)
		return nil, err
	}

	acc, err := s.accounts.AdjustBalance(ctx, req.Amount.Neg())
	if err != nil {
		s.metrics.RecordTransfer(metrics.OutcomeFailure, 0)
		return nil, fmt.Errorf("failed to debit account: %w", err)
	}

	now := s.now().UTC()
	tx := &ledger.Transaction{
		ID:          uuid.NewString(),
		Type:        ledger.TransactionTypeTransfer,
		Amount:      req.Amount.Neg(),
		Description: "Transferencia a " + req.ContactName,
		Date:        now,
		Timestamp:   now.UnixMilli(),
		Status:      ledger.TransactionStatusCompleted,
		Category:    "transfers",
		Recipient:   req.ContactName,
		Balance:     acc.Balance,
	}
	if err := s.txRepo.Prepend(ctx, tx); err != nil {
		s.logger.Error("Failed to log transfer, reverting debit", "contact_id", req.ContactID, "error", err)
		s.compensate(ctx, "", req.Amount)
		s.metrics.RecordTransfer(metrics.OutcomeFailure, 0)
		return nil, err
	}

	if recipient != nil {
		// The history is re-read under the repository lock; recipient may be stale by now
		_, err := s.contactRepo.AddRecentTransfer(ctx, req.ContactID, contact.RecentTransfer{
			ID:     tx.ID,
			Amount: req.Amount,
			Date:   now,
			Type:   contact.DirectionSent,
			Reason: req.Reason,
		}, s.settings.RecentLimit)
		if err != nil {
			s.logger.Error("Failed to update contact history, reverting transfer", "contact_id", req.ContactID, "error", err)
			s.compensate(ctx, tx.ID, req.Amount)
			s.metrics.RecordTransfer(metrics.OutcomeFailure, 0)
			return nil, err
		}
	} else {
		s.logger.Warn("Transfer to unknown contact, history not recorded", "contact_id", req.ContactID)
	}

	resp := &ledger.TransferResponse{
		TransferID:    uuid.NewString(),
		TransactionID: tx.ID,
		ContactID:     req.ContactID,
		ContactName:   req.ContactName,
		Amount:        req.Amount,
		Reason:        req.Reason,
		Comment:       req.Comment,
		Date:          now,
		Timestamp:     tx.Timestamp,
		Status:        ledger.TransferStatusCompleted,
		Balance:       acc.Balance,
		ContactKnown:  recipient != nil,
	}

	s.logger.Info("Transfer completed",
		"transfer_id", resp.TransferID,
		"transaction_id", tx.ID,
		"contact_id", req.ContactID,
		"amount", req.Amount.String(),
		"balance", acc.Balance.String(),
	)
	s.metrics.RecordTransfer(metrics.OutcomeSuccess, req.Amount.InexactFloat64())
	s.events.Dispatch(ctx, shared.EventTransferCompleted, resp.TransferID, resp)

	return resp, nil
}

// lookupContact returns nil without error when the contact is unknown
func (s *TransferServiceImpl) lookupContact(ctx context.Context, id string) (*contact.Contact, error) {
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contact.ErrContactNotFound{}) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// compensate removes the logged transaction, if any, and credits amount back
func (s *TransferServiceImpl) compensate(ctx context.Context, txID string, amount decimal.Decimal) {
	ctx = context.WithoutCancel(ctx)

	if txID != "" {
		if err := s.txRepo.Remove(ctx, txID); err != nil {
			s.logger.Error("Failed to remove transaction during rollback", "transaction_id", txID, "error", err)
		}
	}
	if _, err := s.accounts.AdjustBalance(ctx, amount); err != nil {
		s.logger.Error("Failed to credit back transfer amount", "amount", amount.String(), "error", err)
	}
}

// GetTransferHistory returns transfer transactions, newest first
func (s *TransferServiceImpl) GetTransferHistory(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	if err := s.transport.Get(ctx, "/transfers/history").Err(); err != nil {
		return nil, err
	}

	txs, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Limit(ledger.FilterByType(txs, ledger.TransactionTypeTransfer), limit), nil
}

// ListTransactions returns every transaction kind, newest first
func (s *TransferServiceImpl) ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error) {
	if err := s.transport.Get(ctx, "/transactions").Err(); err != nil {
		return nil, err
	}

	txs, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Limit(txs, limit), nil
}
