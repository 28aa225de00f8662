package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the kinds of ledger movements
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeRequest    TransactionType = "request"
)

// TransactionStatus defines transaction processing states
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable entry of the account's log.
// Amount is signed: negative values are outflows.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Timestamp   int64             `json:"timestamp"` // Unix milliseconds of Date
	Sequence    int64             `json:"sequence"`  // Insertion order, breaks timestamp ties
	Status      TransactionStatus `json:"status"`
	Category    string            `json:"category"`
	Recipient   string            `json:"recipient,omitempty"`
	Balance     decimal.Decimal   `json:"balance"` // Account balance right after this entry
}

// Before reports whether t sorts after other in newest-first order
func (t Transaction) Before(other Transaction) bool {
	if t.Timestamp != other.Timestamp {
		return t.Timestamp < other.Timestamp
	}
	return t.Sequence < other.Sequence
}

// SortNewestFirst orders txs by timestamp then sequence, both descending
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Before(txs[i])
	})
}

// FilterByType keeps the transactions of the given type, preserving order
func FilterByType(txs []Transaction, txType TransactionType) []Transaction {
	filtered := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == txType {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// Limit truncates txs to at most n entries. A non-positive n keeps everything.
func Limit(txs []Transaction, n int) []Transaction {
	if n > 0 && len(txs) > n {
		return txs[:n]
	}
	return txs
}

// TransactionRepository is the append-only transaction log
type TransactionRepository interface {
	// Prepend stores tx at the head of the persisted log, assigning its sequence
	Prepend(ctx context.Context, tx *Transaction) error
	// Remove deletes a persisted transaction, used to roll back a failed transfer
	Remove(ctx context.Context, id string) error
	// List returns persisted and seed transactions merged, newest first
	List(ctx context.Context) ([]Transaction, error)
}
