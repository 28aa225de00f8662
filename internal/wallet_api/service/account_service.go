package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/domain/shared"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	transport   Transport
	events      EventDispatcher
	logger      *slog.Logger

	// balanceMu serializes read-modify-write of the balance, cardsMu of the card list
	balanceMu sync.Mutex
	cardsMu   sync.Mutex
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, accountRepo account.Repository, transport Transport, events EventDispatcher) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		transport:   transport,
		events:      events,
		logger:      logger.With("component", "account_service"),
	}
}

// GetAccount returns the persisted account, or the built-in one before any change
func (s *AccountServiceImpl) GetAccount(ctx context.Context) (*account.Account, error) {
	if err := s.transport.Get(ctx, "/account").Err(); err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load account", "error", err)
		return nil, err
	}
	return acc, nil
}

// UpdateBalance overwrites the balance after the simulated call succeeds
func (s *AccountServiceImpl) UpdateBalance(ctx context.Context, newBalance decimal.Decimal) (*account.Account, error) {
	if err := s.transport.Put(ctx, "/account/balance", map[string]decimal.Decimal{"balance": newBalance}).Err(); err != nil {
		return nil, err
	}

	s.balanceMu.Lock()
	defer s.balanceMu.Unlock()

	acc, err := s.accountRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	previous := acc.Balance
	acc.SetBalance(newBalance)

	if err := s.accountRepo.Save(ctx, acc); err != nil {
		s.logger.Error("Failed to save account balance", "account_id", acc.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Account balance updated",
		"account_id", acc.ID,
		"previous_balance", previous.String(),
		"balance", acc.Balance.String(),
	)
	s.events.Dispatch(ctx, shared.EventBalanceUpdated, acc.ID, acc)

	return acc, nil
}

// AdjustBalance adds delta to the current balance
func (s *AccountServiceImpl) AdjustBalance(ctx context.Context, delta decimal.Decimal) (*account.Account, error) {
	s.balanceMu.Lock()
	defer s.balanceMu.Unlock()

	acc, err := s.accountRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	acc.Adjust(delta)

	if err := s.accountRepo.Save(ctx, acc); err != nil {
		s.logger.Error("Failed to save adjusted balance",
			"account_id", acc.ID,
			"delta", delta.String(),
			"error", err,
		)
		return nil, err
	}

	s.logger.Debug("Account balance adjusted", "account_id", acc.ID, "delta", delta.String(), "balance", acc.Balance.String())
	return acc, nil
}

// GetCards returns the account's cards
func (s *AccountServiceImpl) GetCards(ctx context.Context) ([]account.Card, error) {
	if err := s.transport.Get(ctx, "/cards").Err(); err != nil {
		return nil, err
	}
	return s.accountRepo.ListCards(ctx)
}

// ToggleCardStatus freezes an active card or activates a frozen one
func (s *AccountServiceImpl) ToggleCardStatus(ctx context.Context, cardID string) (*account.Card, error) {
	if err := s.transport.Post(ctx, "/cards/"+cardID+"/toggle", nil).Err(); err != nil {
		return nil, err
	}

	s.cardsMu.Lock()
	defer s.cardsMu.Unlock()

	cards, err := s.accountRepo.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cards {
		if cards[i].ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, account.ErrCardNotFound{CardID: cardID}
	}

	cards[idx].Toggle()
	if err := s.accountRepo.SaveCards(ctx, cards); err != nil {
		s.logger.Error("Failed to save cards", "card_id", cardID, "error", err)
		return nil, err
	}

	card := cards[idx]
	s.logger.Info("Card status toggled", "card_id", card.ID, "is_active", card.IsActive)
	s.events.Dispatch(ctx, shared.EventCardToggled, card.ID, card)

	return &card, nil
}
