package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autotrack/autotrack/internal/model"
)

const (
	// dashboardKeyPrefix is the Redis key prefix for dashboard stats.
	dashboardKeyPrefix = "dashboard:"

	// DashboardTTL is short because status is time-sensitive; a stale
	// summary self-heals on the next expiry rather than on invalidation.
	DashboardTTL = 30 * time.Second
)

// GetDashboardStats retrieves cached dashboard stats for a user.
// Returns nil on a miss; a miss is not an error.
func (c *Cache) GetDashboardStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	data, err := c.client.Get(ctx, dashboardKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	var stats model.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &stats, nil
}

// SetDashboardStats caches dashboard stats for a user.
func (c *Cache) SetDashboardStats(ctx context.Context, userID string, stats *model.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal dashboard stats: %w", err)
	}

	return c.client.Set(ctx, dashboardKeyPrefix+userID, data, DashboardTTL).Err()
}

// InvalidateDashboardStats drops the cached summary after a mutation.
func (c *Cache) InvalidateDashboardStats(ctx context.Context, userID string) error {
	return c.client.Del(ctx, dashboardKeyPrefix+userID).Err()
}
