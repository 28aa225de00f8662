package service

import (
	"context"
	"log/slog"

	"github.com/wallet-ledger/internal/domain/profile"
	"github.com/wallet-ledger/internal/domain/shared"
)

// preferencesAggregateID keys preference events; there is one set per session
const preferencesAggregateID = "user_preferences"

// PreferencesServiceImpl implements the PreferencesService interface
type PreferencesServiceImpl struct {
	prefsRepo profile.Repository
	transport Transport
	events    EventDispatcher
	logger    *slog.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(logger *slog.Logger, prefsRepo profile.Repository, transport Transport, events EventDispatcher) PreferencesService {
	return &PreferencesServiceImpl{
		prefsRepo: prefsRepo,
		transport: transport,
		events:    events,
		logger:    logger.With("component", "preferences_service"),
	}
}

func (s *PreferencesServiceImpl) GetPreferences(ctx context.Context) (profile.Preferences, error) {
	if err := s.transport.Get(ctx, "/preferences").Err(); err != nil {
		return profile.Preferences{}, err
	}
	return s.prefsRepo.Get(ctx)
}

func (s *PreferencesServiceImpl) UpdatePreferences(ctx context.Context, prefs profile.Preferences) (profile.Preferences, error) {
	if err := prefs.Validate(); err != nil {
		return profile.Preferences{}, err
	}

	if err := s.transport.Put(ctx, "/preferences", prefs).Err(); err != nil {
		return profile.Preferences{}, err
	}

	if err := s.prefsRepo.Save(ctx, prefs); err != nil {
		s.logger.Error("Failed to save preferences", "error", err)
		return profile.Preferences{}, err
	}

	s.logger.Info("Preferences updated", "language", prefs.Language, "theme", prefs.Theme)
	s.events.Dispatch(ctx, shared.EventPreferencesUpdated, preferencesAggregateID, prefs)

	return prefs, nil
}
