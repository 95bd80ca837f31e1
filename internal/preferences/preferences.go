// Package preferences persists small UI flags that must survive a session.
package preferences

//go:generate mockgen -source=preferences.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// DarkModeKey is the fixed key the dark-mode flag is stored under.
const DarkModeKey = "darkMode"

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

var ErrUnknownBackend = errors.New("unknown preferences backend")

// Store is a string key-value store.
type Store interface {
	// Load returns the stored value and whether the key exists.
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendBolt:
		return OpenBoltStore(opts.BoltPath)
	case BackendRedis:
		return OpenRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, errors.Wrap(ErrUnknownBackend, opts.Backend)
	}
}

// LoadBool reads key as a boolean. A missing key reads as false.
func LoadBool(ctx context.Context, s Store, key string) (bool, error) {
	raw, ok, err := s.Load(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(err, "preference %s", key)
	}
	return v, nil
}

// SaveBool stores v as "true" or "false".
func SaveBool(ctx context.Context, s Store, key string, v bool) error {
	return s.Save(ctx, key, strconv.FormatBool(v))
}
