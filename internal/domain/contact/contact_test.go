package contact

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, err := NewContact("c-9", "  ana martínez  ", "ana@example.com", "", true)
		require.NoError(t, err)

		assert.Equal(t, "ana martínez", c.Name)
		assert.Equal(t, "AM", c.Initials)
		assert.True(t, c.HasWalletAccount)
		assert.NotNil(t, c.RecentTransfers)
		assert.Empty(t, c.RecentTransfers)
	})

	t.Run("EmptyName", func(t *testing.T) {
		c, err := NewContact("c-9", "   ", "", "", false)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestInitials(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Ana Martínez", "AM"},
		{"carlos", "C"},
		{"María José García López", "MJ"},
		{"élodie durand", "ÉD"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Initials(tc.name))
		})
	}
}

func TestContact_AddRecentTransfer(t *testing.T) {
	t.Run("NewestFirst", func(t *testing.T) {
		c := &Contact{ID: "c-1"}
		c.AddRecentTransfer(RecentTransfer{ID: "t1", Amount: decimal.NewFromInt(10), Type: DirectionSent}, 5)
		c.AddRecentTransfer(RecentTransfer{ID: "t2", Amount: decimal.NewFromInt(20), Type: DirectionSent}, 5)

		require.Len(t, c.RecentTransfers, 2)
		assert.Equal(t, "t2", c.RecentTransfers[0].ID)
		assert.Equal(t, "t1", c.RecentTransfers[1].ID)
	})

	t.Run("CappedAtLimit", func(t *testing.T) {
		c := &Contact{ID: "c-1"}
		for i := 0; i < 8; i++ {
			c.AddRecentTransfer(RecentTransfer{
				ID:     fmt.Sprintf("t%d", i),
				Amount: decimal.NewFromInt(int64(i)),
				Date:   time.Now(),
				Type:   DirectionSent,
			}, DefaultRecentLimit)
			assert.LessOrEqual(t, len(c.RecentTransfers), DefaultRecentLimit)
		}

		require.Len(t, c.RecentTransfers, DefaultRecentLimit)
		assert.Equal(t, "t7", c.RecentTransfers[0].ID)
		assert.Equal(t, "t3", c.RecentTransfers[4].ID)
	})

	t.Run("NonPositiveLimitUsesDefault", func(t *testing.T) {
		c := &Contact{ID: "c-1"}
		for i := 0; i < 7; i++ {
			c.AddRecentTransfer(RecentTransfer{ID: fmt.Sprintf("t%d", i)}, 0)
		}
		assert.Len(t, c.RecentTransfers, DefaultRecentLimit)
	})
}

func TestErrContactNotFound_Is(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrContactNotFound{ContactID: "c-1"})

	assert.True(t, errors.Is(err, ErrContactNotFound{}))
	assert.False(t, errors.Is(err, ErrContactNotFound{ContactID: "c-2"}))
}
