package cache

import (
	"github.com/teerapatch/beankiosk/backend-go/internal/config"
	"github.com/teerapatch/beankiosk/backend-go/internal/kvstore"
)

// NewKioskStore returns the store kiosk block flags and sync bookkeeping live
// in: Redis when caching is enabled so all instances share it, an in-process
// store otherwise.
func NewKioskStore(cfg config.CacheConfig) (kvstore.Store, error) {
	if !cfg.Enabled {
		return kvstore.NewMemoryStore(), nil
	}

	client, _, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return kvstore.NewRedisStore(client), nil
}
