package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "bjj:catalog:v1"

// CatalogCache holds a copy of the technique catalog between reads.
type CatalogCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (techniques []models.Technique, ok bool, err error)
	Set(ctx context.Context, techniques []models.Technique) error
	Invalidate(ctx context.Context) error
}

type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(addr, password string, ttl time.Duration) (*RedisCatalogCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCatalogCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisCatalogCache) Get(ctx context.Context) ([]models.Technique, bool, error) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var techniques []models.Technique
	if err := json.Unmarshal(raw, &techniques); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return techniques, true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, techniques []models.Technique) error {
	raw, err := json.Marshal(techniques)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, raw, c.ttl).Err()
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

func (c *RedisCatalogCache) Close() error {
	return c.rdb.Close()
}

// Nop never holds anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context) ([]models.Technique, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, []models.Technique) error         { return nil }
func (Nop) Invalidate(context.Context) error                      { return nil }
