package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/settings"
	"github.com/redis/go-redis/v9"
)

// settingsOverviewKey is the single typed key for the settings-overview
// cache. Every settings write must invalidate it synchronously.
const settingsOverviewKey = "attendance:settings:overview"

// DefaultSettingsTTL bounds staleness if the background refresh stalls.
const DefaultSettingsTTL = 300 * time.Second

// NewRedis connects to redis with short timeouts so a dead cache degrades
// fast instead of stalling requests.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

// SettingsCache is the redis-backed settings.OverviewCache implementation.
type SettingsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSettingsCache(rdb *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached config, or (nil, nil) on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*settings.TimingConfig, error) {
	raw, err := c.rdb.Get(ctx, settingsOverviewKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings cache: %w", err)
	}

	var cfg settings.TimingConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, nil
	}
	return &cfg, nil
}

func (c *SettingsCache) Set(ctx context.Context, cfg settings.TimingConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, settingsOverviewKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}
	return nil
}

func (c *SettingsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, settingsOverviewKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}

// Healthy verifies redis connectivity.
func (c *SettingsCache) Healthy(ctx context.Context) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	return c.rdb.Ping(ctx).Err() == nil
}
