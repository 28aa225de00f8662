package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
	ErrEmptyAccountNumber    = errors.New("account number cannot be empty")
)

// Account is the single wallet account of a session
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Type          string          `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewAccount creates an active account with the given opening balance
func NewAccount(id, accountNumber, accountType string, balance decimal.Decimal, currency string) (*Account, error) {
	if accountNumber == "" {
		return nil, ErrEmptyAccountNumber
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}

	now := time.Now().UTC()
	return &Account{
		ID:            id,
		AccountNumber: accountNumber,
		Type:          accountType,
		Balance:       balance,
		Currency:      currency,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetBalance overwrites the balance. No floor is enforced; callers validate.
func (a *Account) SetBalance(balance decimal.Decimal) {
	a.Balance = balance
	a.UpdatedAt = time.Now().UTC()
}

// Adjust applies a signed delta to the balance and returns the new balance
func (a *Account) Adjust(delta decimal.Decimal) decimal.Decimal {
	a.SetBalance(a.Balance.Add(delta))
	return a.Balance
}
