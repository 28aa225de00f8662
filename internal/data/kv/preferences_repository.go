package kv

import (
	"context"
	"log/slog"

	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/platform/kvstore"
)

// PreferencesRepository persists preferences under "user_preferences"
type PreferencesRepository struct {
	store  kvstore.Store
	logger *slog.Logger
}

var _ profile.Repository = (*PreferencesRepository)(nil)

func NewPreferencesRepository(logger *slog.Logger, store kvstore.Store) *PreferencesRepository {
	return &PreferencesRepository{
		store:  store,
		logger: logger.With("component", "preferences_repository"),
	}
}

func (r *PreferencesRepository) Get(ctx context.Context) (profile.Preferences, error) {
	prefs, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyUserPreferences, profile.DefaultPreferences())
	if err != nil {
		r.logger.Error("failed to load preferences", "error", err)
	}
	return prefs, err
}

func (r *PreferencesRepository) Save(ctx context.Context, prefs profile.Preferences) error {
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyUserPreferences, prefs); err != nil {
		r.logger.Error("failed to persist preferences", "error", err)
		return err
	}
	return nil
}
