package request

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/shared"
)

// DefaultExpiry is how long a new request stays open
const DefaultExpiry = 7 * 24 * time.Hour

// Status of a money request
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// MoneyRequest asks a contact for money.
// pending -> completed | rejected, both terminal. A pending request may also be cancelled.
type MoneyRequest struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	RequesterID   string          `json:"requesterId"`
	RequesterName string          `json:"requesterName"`
	TargetID      string          `json:"targetId"`
	TargetName    string          `json:"targetName"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
}

// NewMoneyRequest creates a pending request expiring after DefaultExpiry
func NewMoneyRequest(id string, amount decimal.Decimal, description, requesterID, requesterName, targetID, targetName string, now time.Time) (*MoneyRequest, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrValidation{Field: "amount", Reason: "must be greater than 0"}
	}
	if targetID == "" {
		return nil, shared.ErrValidation{Field: "targetId", Reason: "is required"}
	}
	return &MoneyRequest{
		ID:            id,
		Amount:        amount,
		Description:   description,
		RequesterID:   requesterID,
		RequesterName: requesterName,
		TargetID:      targetID,
		TargetName:    targetName,
		Status:        StatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(DefaultExpiry),
	}, nil
}

// IsPending reports whether the request can still transition
func (r *MoneyRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Accept completes a pending request
func (r *MoneyRequest) Accept(now time.Time) error {
	return r.finish(StatusCompleted, "accept", now)
}

// Reject declines a pending request
func (r *MoneyRequest) Reject(now time.Time) error {
	return r.finish(StatusRejected, "reject", now)
}

func (r *MoneyRequest) finish(status Status, action string, now time.Time) error {
	if !r.IsPending() {
		return ErrInvalidRequestState{RequestID: r.ID, Status: r.Status, Action: action}
	}
	r.Status = status
	r.CompletedAt = &now
	return nil
}
