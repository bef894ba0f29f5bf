package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/presenzo/presence-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	repo  settings.SettingsRepository
	cache settings.OverviewCache
}

func NewSettingsService(repo settings.SettingsRepository, cache settings.OverviewCache) settings.SettingsService {
	return &SettingsServiceImpl{repo: repo, cache: cache}
}

// Get implements settings.SettingsService. Reads are cache-first; a cache
// error degrades to the repository, and a missing settings row degrades to
// the baseline defaults.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.TimingConfig, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			slog.Warn("Settings cache read failed, falling back to store", "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.Default(), nil
		}
		return settings.TimingConfig{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cfg); err != nil {
			slog.Warn("Settings cache write failed", "error", err)
		}
	}
	return cfg, nil
}

// Update implements settings.SettingsService. The cache is invalidated
// synchronously on every write so no caller observes the old rules for a
// full TTL.
func (s *SettingsServiceImpl) Update(ctx context.Context, cfg settings.TimingConfig) (settings.TimingConfig, error) {
	if err := cfg.Validate(); err != nil {
		return settings.TimingConfig{}, fmt.Errorf("%w: %s", settings.ErrInvalidSettings, err)
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return settings.TimingConfig{}, fmt.Errorf("failed to store settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			slog.Error("Settings cache invalidation failed", "error", err)
		}
	}
	return cfg, nil
}

// WarmCache implements settings.SettingsService.
func (s *SettingsServiceImpl) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			cfg = settings.Default()
		} else {
			return fmt.Errorf("failed to load settings for cache refresh: %w", err)
		}
	}
	return s.cache.Set(ctx, cfg)
}
