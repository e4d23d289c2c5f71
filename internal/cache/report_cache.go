package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spp-be-svc/internal/config"
	"spp-be-svc/internal/models/response"
	"spp-be-svc/pkg/logger"
)

const (
	snapshotKeyPrefix = "spp:report:snapshot:"
	snapshotTTL       = 10 * time.Minute
)

// ReportCache caches reconciliation snapshots per academic-year filter.
// Snapshots are always recomputable from the stores, so every method degrades
// to a no-op when Redis is not configured or unavailable: a cache failure
// must never fail a report request or a billing mutation.
type ReportCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewReportCache connects to Redis when an address is configured. A nil
// client means caching is disabled.
func NewReportCache(cfg *config.RedisConfig, logger *logger.Logger) *ReportCache {
	cache := &ReportCache{logger: logger}

	if cfg.Addr == "" {
		logger.Info("Report cache disabled (no Redis address configured)")
		return cache
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, report cache disabled")
		return cache
	}

	cache.client = client
	logger.WithField("addr", cfg.Addr).Info("Report cache connected")
	return cache
}

// Enabled reports whether a Redis client is wired
func (c *ReportCache) Enabled() bool {
	return c.client != nil
}

func snapshotKey(academicYearID *uint) string {
	if academicYearID == nil {
		return snapshotKeyPrefix + "all"
	}
	return fmt.Sprintf("%s%d", snapshotKeyPrefix, *academicYearID)
}

// GetSnapshot returns a cached snapshot for the filter, if present
func (c *ReportCache) GetSnapshot(ctx context.Context, academicYearID *uint) (*response.ReconciliationSnapshot, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, snapshotKey(academicYearID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Report cache read failed")
		}
		return nil, false
	}

	var snapshot response.ReconciliationSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.WithError(err).Warn("Report cache entry malformed, ignoring")
		return nil, false
	}

	return &snapshot, true
}

// SetSnapshot stores a snapshot for the filter
func (c *ReportCache) SetSnapshot(ctx context.Context, academicYearID *uint, snapshot *response.ReconciliationSnapshot) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal report snapshot")
		return
	}

	if err := c.client.Set(ctx, snapshotKey(academicYearID), raw, snapshotTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("Report cache write failed")
	}
}

// Invalidate drops all cached snapshots. Called on every invoice or payment
// mutation so the next report reflects the committed state.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, snapshotKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WithError(err).Warn("Report cache scan failed during invalidation")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("Report cache invalidation failed")
	}
}

// Close releases the Redis connection
func (c *ReportCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
