package schedule

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/shared"
)

// Frequency of a scheduled transfer
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Next returns the occurrence following from, and false for one-off transfers
func (f Frequency) Next(from time.Time) (time.Time, bool) {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1), true
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

// ScheduledTransfer is a future or recurring transfer to a contact.
// Cancelling clears IsActive; entries are never removed.
type ScheduledTransfer struct {
	ID             string          `json:"id"`
	ContactID      string          `json:"contactId"`
	ContactName    string          `json:"contactName"`
	Amount         decimal.Decimal `json:"amount"`
	ScheduledDate  time.Time       `json:"scheduledDate"`
	Frequency      Frequency       `json:"frequency"`
	Reason         string          `json:"reason"`
	Comment        string          `json:"comment,omitempty"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	LastExecutedAt *time.Time      `json:"lastExecutedAt,omitempty"`
}

// Patch holds the fields of an update; nil fields are left unchanged
type Patch struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	ScheduledDate *time.Time       `json:"scheduledDate,omitempty"`
	Frequency     *Frequency       `json:"frequency,omitempty"`
	Reason        *string          `json:"reason,omitempty"`
	Comment       *string          `json:"comment,omitempty"`
}

// Validate checks the fields a patch would set
func (p Patch) Validate() error {
	if p.Amount != nil && !p.Amount.IsPositive() {
		return shared.ErrValidation{Field: "amount", Reason: "must be greater than 0"}
	}
	if p.Frequency != nil && !p.Frequency.Valid() {
		return shared.ErrValidation{Field: "frequency", Reason: "must be one of once, daily, weekly, monthly"}
	}
	if p.Reason != nil && strings.TrimSpace(*p.Reason) == "" {
		return shared.ErrValidation{Field: "reason", Reason: "cannot be empty"}
	}
	return nil
}

// Validate checks a transfer about to be created
func (s *ScheduledTransfer) Validate() error {
	if strings.TrimSpace(s.ContactID) == "" {
		return shared.ErrValidation{Field: "contactId", Reason: "is required"}
	}
	if !s.Amount.IsPositive() {
		return shared.ErrValidation{Field: "amount", Reason: "must be greater than 0"}
	}
	if s.ScheduledDate.IsZero() {
		return shared.ErrValidation{Field: "scheduledDate", Reason: "is required"}
	}
	if !s.Frequency.Valid() {
		return shared.ErrValidation{Field: "frequency", Reason: "must be one of once, daily, weekly, monthly"}
	}
	return nil
}

// Apply copies the set fields of p onto s
func (s *ScheduledTransfer) Apply(p Patch, now time.Time) {
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.ScheduledDate != nil {
		s.ScheduledDate = *p.ScheduledDate
	}
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.Reason != nil {
		s.Reason = *p.Reason
	}
	if p.Comment != nil {
		s.Comment = *p.Comment
	}
	s.UpdatedAt = now
}

// Cancel deactivates the transfer
func (s *ScheduledTransfer) Cancel(now time.Time) {
	s.IsActive = false
	s.UpdatedAt = now
}

// IsDue reports whether an active transfer should run at now
func (s *ScheduledTransfer) IsDue(now time.Time) bool {
	return s.IsActive && !s.ScheduledDate.After(now)
}

// MarkExecuted records a run at now and moves to the next occurrence,
// deactivating one-off transfers
func (s *ScheduledTransfer) MarkExecuted(now time.Time) {
	s.LastExecutedAt = &now
	s.UpdatedAt = now
	next, ok := s.Frequency.Next(s.ScheduledDate)
	if !ok {
		s.IsActive = false
		return
	}
	// Skip occurrences missed while the executor was not running
	for !next.After(now) {
		next, _ = s.Frequency.Next(next)
	}
	s.ScheduledDate = next
}
