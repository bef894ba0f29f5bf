package cron

import (
	"context"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/settings"
)

// SettingsJobs keeps the settings-overview cache warm so calendar and
// check-in requests rarely pay the repository read.
type SettingsJobs struct {
	settingsSvc settings.SettingsService
}

func NewSettingsJobs(settingsSvc settings.SettingsService) *SettingsJobs {
	return &SettingsJobs{settingsSvc: settingsSvc}
}

func (j *SettingsJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_settings_cache", 60*time.Second, 30*time.Second, j.RefreshSettingsCache)
}

func (j *SettingsJobs) RefreshSettingsCache(ctx context.Context) error {
	return j.settingsSvc.WarmCache(ctx)
}
