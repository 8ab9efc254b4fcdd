package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/application/report"
)

var _ ports.ReportCache = (*RedisReportCache)(nil)

// NewRedisClient crea el cliente desde REDIS_URL y valida la conexión.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisReportCache guarda los reportes serializados en JSON bajo el prefijo "reports:".
type RedisReportCache struct {
	rdb *redis.Client
}

// NewRedisReportCache construye la caché sobre un cliente ya conectado.
func NewRedisReportCache(rdb *redis.Client) *RedisReportCache {
	return &RedisReportCache{rdb: rdb}
}

// Get lee y deserializa la clave; (false, nil) si no existe.
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set serializa y guarda con TTL.
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate borra todas las claves "reports:*" (SCAN + DEL, sin KEYS).
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, report.KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan reports: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del reports: %w", err)
	}
	return nil
}
