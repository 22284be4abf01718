package cache

import (
	"context"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"

	redis "github.com/redis/go-redis/v9"
)

// ReportCache stores rendered report payloads for a short TTL so repeated
// dashboard polls do not re-run the aggregation queries
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NoopReportCache is used when no Redis address is configured
type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// RedisReportCache backs the report cache with Redis
type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

var store ReportCache = NoopReportCache{}
var reportTTL = 60 * time.Second

// Init selects the cache backend from config. Without REDIS_ADDR the no-op
// backend is used and every report read hits the database.
func Init(cfg *config.Config) {
	reportTTL = cfg.Redis.ReportTTL
	if cfg.Redis.Addr == "" {
		store = NoopReportCache{}
		return
	}
	store = NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

// GetCache returns the active report cache backend
func GetCache() ReportCache {
	return store
}

// ReportTTL returns the configured report cache TTL
func ReportTTL() time.Duration {
	return reportTTL
}
