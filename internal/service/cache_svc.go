package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCacheTTL bounds staleness of the aggregated stats payload. Analysis
// results themselves are never cached: every analysis request recomputes
// from live data.
const StatsCacheTTL = 5 * time.Minute

// CacheService provides a Redis cache-aside layer for the stats endpoint.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetStats retrieves a cached stats payload for the given range key.
// Returns nil if not cached or cache is disabled.
func (c *CacheService) GetStats(ctx context.Context, rangeKey string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, statsKey(rangeKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetStats stores a stats payload for the given range key.
func (c *CacheService) SetStats(ctx context.Context, rangeKey string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, statsKey(rangeKey), b, StatsCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func statsKey(rangeKey string) string {
	return "stats:" + rangeKey
}
