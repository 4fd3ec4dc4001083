package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teerapatch/beankiosk/backend-go/internal/config"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

const forecastKeyPrefix = "analytics:forecast"

type ForecastCache interface {
	GetForecast(ctx context.Context, product, province, day string) (*domain.ForecastResult, bool, error)
	SetForecast(ctx context.Context, product, province, day string, result *domain.ForecastResult) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, product, province, day string) (*domain.ForecastResult, bool, error) {
	key := buildForecastKey(product, province, day)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ForecastResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisForecastCache) SetForecast(ctx context.Context, product, province, day string, result *domain.ForecastResult) error {
	key := buildForecastKey(product, province, day)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, scanBatchSize)
}

func (n *noopForecastCache) GetForecast(ctx context.Context, product, province, day string) (*domain.ForecastResult, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecast(ctx context.Context, product, province, day string, result *domain.ForecastResult) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildForecastKey carries the anchor day so an entry cached just before
// midnight cannot serve a stale projection after the day rolls over.
func buildForecastKey(product, province, day string) string {
	parts := []string{
		"product=" + strings.ToLower(strings.TrimSpace(product)),
		"province=" + strings.ToLower(strings.TrimSpace(province)),
		"day=" + strings.TrimSpace(day),
	}
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, hex.EncodeToString(sum[:]))
}
