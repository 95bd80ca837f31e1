package preferences

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis under prefix+key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedisStore connects and pings the server.
func OpenRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

// Load returns the value of key and whether it was set.
func (r *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "load preference %s", key)
	}
	return v, true, nil
}

// Save sets key to value.
func (r *RedisStore) Save(ctx context.Context, key, value string) error {
	// preferences never expire
	err := r.client.Set(ctx, r.key(key), value, 0).Err()
	return errors.Wrapf(err, "save preference %s", key)
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
