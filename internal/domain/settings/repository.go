package settings

import "context"

// SettingsRepository persists the single organization-wide TimingConfig row.
type SettingsRepository interface {
	// Get returns the stored config, or ErrSettingsNotFound when no row exists.
	Get(ctx context.Context) (TimingConfig, error)

	// Upsert stores the config, replacing any existing row.
	Upsert(ctx context.Context, cfg TimingConfig) error
}

// OverviewCache sits in front of SettingsRepository. Reads degrade to the
// repository when the cache is unavailable; settings writes must call
// Invalidate synchronously.
type OverviewCache interface {
	Get(ctx context.Context) (*TimingConfig, error)
	Set(ctx context.Context, cfg TimingConfig) error
	Invalidate(ctx context.Context) error
}

// SettingsService exposes settings reads (cache-first) and writes
// (invalidate-on-mutate).
type SettingsService interface {
	Get(ctx context.Context) (TimingConfig, error)
	Update(ctx context.Context, cfg TimingConfig) (TimingConfig, error)
	// WarmCache refreshes the cache from the repository; used by the
	// background refresh job.
	WarmCache(ctx context.Context) error
}
