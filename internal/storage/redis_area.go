package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisArea stores items as plain Redis strings under "<len>:namespace::key".
type RedisArea struct {
	client *redis.Client
	ns     string
	ttl    time.Duration
}

type RedisAreaOption func(*RedisArea)

// WithRedisTTL makes every written item expire after ttl. Zero keeps items forever.
func WithRedisTTL(ttl time.Duration) RedisAreaOption {
	return func(a *RedisArea) {
		a.ttl = ttl
	}
}

func NewRedisArea(client *redis.Client, namespace string, opts ...RedisAreaOption) *RedisArea {
	a := &RedisArea{client: client, ns: namespace}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

func (a *RedisArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := a.client.Get(ctx, a.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (a *RedisArea) SetItem(ctx context.Context, key, value string) error {
	err := a.client.Set(ctx, a.key(key), value, a.ttl).Err()
	if err != nil && strings.HasPrefix(err.Error(), "OOM") {
		return errors.Join(ErrQuotaExceeded, err)
	}
	return err
}

func (a *RedisArea) Close() error {
	return a.client.Close()
}

func (a *RedisArea) key(k string) string {
	if a.ns == "" {
		return k
	}
	return scopedKey(a.ns, k)
}
