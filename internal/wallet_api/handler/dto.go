package handler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/schedule"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// Query limits
const (
	defaultHistoryLimit = 10
	maxListLimit        = 100
)

// UpdateBalanceRequest represents a request to overwrite the account balance
type UpdateBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required"`
}

// TransferRequest represents a request to send money to a contact
type TransferRequest struct {
	ContactID   string           `json:"contactId" binding:"required"`
	ContactName string           `json:"contactName" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Reason      string           `json:"reason" binding:"required"`
	Comment     string           `json:"comment"`
}

func (r TransferRequest) toDomain() ledger.TransferRequest {
	return ledger.TransferRequest{
		ContactID:   r.ContactID,
		ContactName: r.ContactName,
		Amount:      *r.Amount,
		Reason:      r.Reason,
		Comment:     r.Comment,
	}
}

// AddContactRequest represents a request to add a contact
type AddContactRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	Phone            string `json:"phone"`
	HasWalletAccount bool   `json:"hasWalletAccount"`
}

func (r AddContactRequest) toInput() service.NewContactInput {
	return service.NewContactInput{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		HasWalletAccount: r.HasWalletAccount,
	}
}

// CreateMoneyRequestRequest represents a request for money sent to a contact
type CreateMoneyRequestRequest struct {
	ContactID   string           `json:"contactId" binding:"required"`
	ContactName string           `json:"contactName" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description"`
}

func (r CreateMoneyRequestRequest) toInput() service.NewMoneyRequestInput {
	return service.NewMoneyRequestInput{
		ContactID:   r.ContactID,
		ContactName: r.ContactName,
		Amount:      *r.Amount,
		Description: r.Description,
	}
}

// CreateScheduledTransferRequest represents a request to schedule a transfer
type CreateScheduledTransferRequest struct {
	ContactID     string           `json:"contactId" binding:"required"`
	ContactName   string           `json:"contactName" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	ScheduledDate time.Time        `json:"scheduledDate" binding:"required"`
	Frequency     string           `json:"frequency" binding:"required,oneof=once daily weekly monthly"`
	Reason        string           `json:"reason" binding:"required"`
	Comment       string           `json:"comment"`
}

func (r CreateScheduledTransferRequest) toInput() service.NewScheduledTransferInput {
	return service.NewScheduledTransferInput{
		ContactID:     r.ContactID,
		ContactName:   r.ContactName,
		Amount:        *r.Amount,
		ScheduledDate: r.ScheduledDate,
		Frequency:     schedule.Frequency(r.Frequency),
		Reason:        r.Reason,
		Comment:       r.Comment,
	}
}

// requirePositive rejects a missing or non-positive amount before it reaches a service
func requirePositive(amount *decimal.Decimal) bool {
	return amount != nil && amount.IsPositive()
}
