package service

import (
	"context"
	"errors"
	"sync"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/repository"
)

// SettingsScreen holds the system settings. They are loaded once and saved
// wholesale.
type SettingsScreen struct {
	repo repository.SettingsRepository
	deps Deps

	mu       sync.Mutex
	settings domain.Settings
	loaded   bool
	pending  outbox
}

func NewSettingsScreen(repo repository.SettingsRepository, deps Deps) *SettingsScreen {
	return &SettingsScreen{repo: repo, deps: deps.withDefaults(), settings: domain.DefaultSettings()}
}

// Load reads the saved settings, falling back to the defaults when nothing
// was saved yet.
func (s *SettingsScreen) Load(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.unlock(ctx)

	logger.RepositoryCall("settings", "Load")
	saved, err := s.repo.Load(ctx)
	logger.RepositoryResult("settings", "Load", err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.settings = domain.DefaultSettings()
	case err != nil:
		metrics.IncFetchFailure("settings")
		s.notify(ctx, domain.NotificationError, "Failed to load settings")
		return s.settings, domain.FetchFailure("settings.Load", err)
	default:
		s.settings = *saved
	}
	s.loaded = true
	return s.settings, nil
}

// Get returns the settings, loading them on first use.
func (s *SettingsScreen) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	if s.loaded {
		defer s.mu.Unlock()
		return s.settings, nil
	}
	s.mu.Unlock()
	return s.Load(ctx)
}

// Save validates and persists the whole settings object.
func (s *SettingsScreen) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := validateInput(settings); err != nil {
		return domain.Settings{}, err
	}

	s.mu.Lock()
	defer s.unlock(ctx)

	logger.RepositoryCall("settings", "Save")
	err := s.repo.Save(ctx, settings)
	logger.RepositoryResult("settings", "Save", err)
	if err != nil {
		metrics.IncFetchFailure("settings")
		s.notify(ctx, domain.NotificationError, "Failed to save settings")
		return s.settings, domain.FetchFailure("settings.Save", err)
	}

	s.settings = settings
	s.loaded = true
	s.notify(ctx, domain.NotificationSuccess, "Settings saved successfully")
	return settings, nil
}

func (s *SettingsScreen) notify(ctx context.Context, kind domain.NotificationKind, message string) {
	metrics.IncNotification(kind)
	s.pending.notes = append(s.pending.notes, newNotification(kind, "settings", message, s.deps.Now()))
}

func (s *SettingsScreen) unlock(ctx context.Context) {
	out := s.pending.take()
	s.mu.Unlock()
	out.deliver(ctx, s.deps)
}
