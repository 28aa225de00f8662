package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet-ledger/internal/domain/shared"
)

func tx(id string, txType TransactionType, at time.Time, seq int64) Transaction {
	return Transaction{ID: id, Type: txType, Date: at, Timestamp: at.UnixMilli(), Sequence: seq}
}

func TestSortNewestFirst(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("ByTimestamp", func(t *testing.T) {
		txs := []Transaction{
			tx("old", TransactionTypeTransfer, day.Add(-48*time.Hour), 0),
			tx("new", TransactionTypeTransfer, day, 0),
			tx("mid", TransactionTypePayment, day.Add(-24*time.Hour), 0),
		}

		SortNewestFirst(txs)

		assert.Equal(t, []string{"new", "mid", "old"}, ids(txs))
	})

	t.Run("SameTimestampUsesSequence", func(t *testing.T) {
		txs := []Transaction{
			tx("first", TransactionTypeTransfer, day, 1),
			tx("third", TransactionTypeTransfer, day, 3),
			tx("second", TransactionTypeTransfer, day, 2),
		}

		SortNewestFirst(txs)

		assert.Equal(t, []string{"third", "second", "first"}, ids(txs))
	})
}

func TestFilterByTypeAndLimit(t *testing.T) {
	day := time.Now()
	txs := []Transaction{
		tx("t1", TransactionTypeTransfer, day, 3),
		tx("p1", TransactionTypePayment, day, 2),
		tx("t2", TransactionTypeTransfer, day, 1),
		tx("t3", TransactionTypeTransfer, day, 0),
	}

	transfers := FilterByType(txs, TransactionTypeTransfer)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(transfers))

	assert.Len(t, Limit(transfers, 2), 2)
	assert.Len(t, Limit(transfers, 10), 3)
	assert.Len(t, Limit(transfers, 0), 3)
}

func TestTransferRequest_Validate(t *testing.T) {
	valid := TransferRequest{
		ContactID:   "1",
		ContactName: "Ana Martínez",
		Amount:      decimal.NewFromInt(5000),
		Reason:      "rent",
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name  string
		mut   func(r *TransferRequest)
		field string
	}{
		{"MissingContactID", func(r *TransferRequest) { r.ContactID = " " }, "contactId"},
		{"MissingContactName", func(r *TransferRequest) { r.ContactName = "" }, "contactName"},
		{"ZeroAmount", func(r *TransferRequest) { r.Amount = decimal.Zero }, "amount"},
		{"NegativeAmount", func(r *TransferRequest) { r.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"MissingReason", func(r *TransferRequest) { r.Reason = "" }, "reason"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mut(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation{Field: tc.field})
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func ids(txs []Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}
