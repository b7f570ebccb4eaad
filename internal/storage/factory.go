package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/bassista/go_persist/internal/config"
	"github.com/redis/go-redis/v9"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewAreaFromConfig builds the Area selected by cfg.Backend.
// The returned closer releases the backend and is never nil on success.
func NewAreaFromConfig(ctx context.Context, cfg config.StorageConfig) (Area, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryArea(cfg.QuotaBytes), nopCloser{}, nil
	case config.BackendFile, "":
		area, err := OpenFileArea(cfg.FilePath, cfg.QuotaBytes)
		if err != nil {
			return nil, nil, err
		}
		return area, nopCloser{}, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		area := NewRedisArea(client, cfg.RedisNamespace, WithRedisTTL(cfg.RedisTTL))
		return area, area, nil
	case config.BackendSQLite:
		area, err := OpenSQLiteArea(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return area, area, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
