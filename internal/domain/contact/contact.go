package contact

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultRecentLimit is the size of a contact's recent-transfer ring
const DefaultRecentLimit = 5

var ErrEmptyName = errors.New("contact name cannot be empty")

// Direction of a recent transfer relative to the account holder
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// RecentTransfer summarizes one transfer with a contact
type RecentTransfer struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Type   Direction       `json:"type"`
	Reason string          `json:"reason,omitempty"`
}

// Contact is a transfer counterparty
type Contact struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Initials         string           `json:"initials"`
	HasWalletAccount bool             `json:"hasWalletAccount"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	RecentTransfers  []RecentTransfer `json:"recentTransfers"`
}

// NewContact creates a contact with derived initials and no transfer history
func NewContact(id, name, email, phone string, hasWalletAccount bool) (*Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Contact{
		ID:               id,
		Name:             name,
		Initials:         Initials(name),
		HasWalletAccount: hasWalletAccount,
		Email:            email,
		Phone:            phone,
		RecentTransfers:  []RecentTransfer{},
	}, nil
}

// AddRecentTransfer prepends rt and trims the list to the newest limit entries
func (c *Contact) AddRecentTransfer(rt RecentTransfer, limit int) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	recent := make([]RecentTransfer, 0, len(c.RecentTransfers)+1)
	recent = append(recent, rt)
	recent = append(recent, c.RecentTransfers...)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentTransfers = recent
}

// Initials returns the upper-cased first letters of the first two words of name
func Initials(name string) string {
	initials := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}
