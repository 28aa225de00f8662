package account

import (
	"time"
)

// CardType distinguishes debit from credit cards
type CardType string

const (
	CardTypeDebit  CardType = "debit"
	CardTypeCredit CardType = "credit"
)

// Card is a payment card attached to the account
type Card struct {
	ID             string    `json:"id"`
	Type           CardType  `json:"type"`
	Brand          string    `json:"brand"`
	LastFourDigits string    `json:"lastFourDigits"`
	HolderName     string    `json:"holderName"`
	ExpiryDate     string    `json:"expiryDate"`
	IsActive       bool      `json:"isActive"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Toggle flips the card between active and frozen
func (c *Card) Toggle() {
	c.IsActive = !c.IsActive
	c.UpdatedAt = time.Now().UTC()
}
