package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/config"
	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "advisory:dashboard"
	scanBatchSize      = 100

	defaultDashboardTTL = time.Minute
	connectTimeout      = 5 * time.Second
)

// DashboardCache holds fully aggregated dashboard metrics per snapshot
// filter. The engine is deterministic over a snapshot, so a cached entry is
// exact until the underlying snapshot changes (TTL bounds staleness).
type DashboardCache interface {
	Get(ctx context.Context, filter domain.SnapshotFilter) (*domain.DashboardMetrics, bool, error)
	Set(ctx context.Context, filter domain.SnapshotFilter, metrics *domain.DashboardMetrics) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache connects to Redis per the cache config, or hands back the
// noop cache when caching is disabled. Connection failures are returned so the
// caller can decide whether to fall back.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, filter domain.SnapshotFilter) (*domain.DashboardMetrics, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics domain.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &metrics, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, filter domain.SnapshotFilter, metrics *domain.DashboardMetrics) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached dashboard entry. Called after a snapshot
// load so readers never see aggregates of the replaced snapshot.
func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	pattern := dashboardKeyPrefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (n *noopDashboardCache) Get(ctx context.Context, filter domain.SnapshotFilter) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, filter domain.SnapshotFilter, metrics *domain.DashboardMetrics) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter domain.SnapshotFilter) string {
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, FilterHash(filter))
}

// FilterHash produces a stable key for a snapshot filter: list values are
// normalized and sorted so logically equal filters share a cache entry.
func FilterHash(filter domain.SnapshotFilter) string {
	parts := []string{}

	if filter.SnapshotDate != "" {
		parts = append(parts, "snapshot_date="+strings.TrimSpace(filter.SnapshotDate))
	}
	if filter.Ordering != "" {
		parts = append(parts, "ordering="+strings.ToLower(strings.TrimSpace(filter.Ordering)))
	}
	if len(filter.Suppliers) > 0 {
		parts = append(parts, "suppliers="+joinNormalized(filter.Suppliers))
	}
	if len(filter.Statuses) > 0 {
		parts = append(parts, "statuses="+joinNormalized(filter.Statuses))
	}
	if len(filter.ABCClasses) > 0 {
		parts = append(parts, "abc_classes="+joinNormalized(filter.ABCClasses))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func joinNormalized(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(strings.ToLower(c[i]))
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
