package profile

import (
	"context"

	"github.com/wallet-ledger/internal/domain/shared"
)

// Preferences are the user's persisted app settings
type Preferences struct {
	Language             string `json:"language"`
	Currency             string `json:"currency"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	BiometricsEnabled    bool   `json:"biometricsEnabled"`
}

// DefaultPreferences returns the settings used before anything is saved
func DefaultPreferences() Preferences {
	return Preferences{
		Language:             "es",
		Currency:             "EUR",
		Theme:                "system",
		NotificationsEnabled: true,
	}
}

// Validate checks enumerated fields
func (p Preferences) Validate() error {
	switch p.Theme {
	case "light", "dark", "system":
	default:
		return shared.ErrValidation{Field: "theme", Reason: "must be one of light, dark, system"}
	}
	if len(p.Currency) != 3 {
		return shared.ErrValidation{Field: "currency", Reason: "must be a 3-letter code"}
	}
	if p.Language == "" {
		return shared.ErrValidation{Field: "language", Reason: "is required"}
	}
	return nil
}

// Repository persists preferences
type Repository interface {
	Get(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}
