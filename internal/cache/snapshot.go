package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teerapatch/beankiosk/backend-go/internal/config"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

const (
	snapshotKeyPrefix = "analytics:snapshot"
	scanBatchSize     = 100
)

type SnapshotCache interface {
	GetSnapshot(ctx context.Context, dateRange *domain.DateRange) (*domain.Snapshot, bool, error)
	SetSnapshot(ctx context.Context, dateRange *domain.DateRange, snapshot *domain.Snapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) GetSnapshot(ctx context.Context, dateRange *domain.DateRange) (*domain.Snapshot, bool, error) {
	key := buildSnapshotKey(dateRange)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode snapshot cache: %w", err)
	}

	return &snapshot, true, nil
}

func (c *redisSnapshotCache) SetSnapshot(ctx context.Context, dateRange *domain.DateRange, snapshot *domain.Snapshot) error {
	key := buildSnapshotKey(dateRange)
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisSnapshotCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, snapshotKeyPrefix, scanBatchSize)
}

func (n *noopSnapshotCache) GetSnapshot(ctx context.Context, dateRange *domain.DateRange) (*domain.Snapshot, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) SetSnapshot(ctx context.Context, dateRange *domain.DateRange, snapshot *domain.Snapshot) error {
	return nil
}

func (n *noopSnapshotCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSnapshotKey(dateRange *domain.DateRange) string {
	if dateRange == nil {
		return snapshotKeyPrefix + ":all"
	}

	raw := fmt.Sprintf("from=%s|to=%s",
		dateRange.From.Format("2006-01-02"),
		dateRange.To.Format("2006-01-02"))
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, hex.EncodeToString(hash[:]))
}
