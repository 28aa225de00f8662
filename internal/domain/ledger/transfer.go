package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/shared"
)

// TransferStatus is the outcome reported for a submitted transfer
type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusFailed    TransferStatus = "failed"
)

// TransferRequest is a money transfer to a contact
type TransferRequest struct {
	ContactID   string          `json:"contactId"`
	ContactName string          `json:"contactName"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Comment     string          `json:"comment,omitempty"`
}

// Validate rejects requests without a destination or with a non-positive amount
func (r TransferRequest) Validate() error {
	if strings.TrimSpace(r.ContactID) == "" {
		return shared.ErrValidation{Field: "contactId", Reason: "is required"}
	}
	if strings.TrimSpace(r.ContactName) == "" {
		return shared.ErrValidation{Field: "contactName", Reason: "is required"}
	}
	if !r.Amount.IsPositive() {
		return shared.ErrValidation{Field: "amount", Reason: "must be greater than 0"}
	}
	if strings.TrimSpace(r.Reason) == "" {
		return shared.ErrValidation{Field: "reason", Reason: "is required"}
	}
	return nil
}

// TransferResponse echoes a completed transfer with server-assigned fields
type TransferResponse struct {
	TransferID    string          `json:"transferId"`
	TransactionID string          `json:"transactionId"`
	ContactID     string          `json:"contactId"`
	ContactName   string          `json:"contactName"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Comment       string          `json:"comment,omitempty"`
	Date          time.Time       `json:"date"`
	Timestamp     int64           `json:"timestamp"`
	Status        TransferStatus  `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	ContactKnown  bool            `json:"contactKnown"`
}
