// Package kv is the persistence boundary for dashboard state: a flat
// string-keyed store of JSON values with memory, SQLite and Redis backends.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a durable get/set key-value store. Get returns ErrNotFound for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Get decodes the JSON value stored under key. A missing key, a backend
// failure or a value that does not decode as T all yield def.
func Get[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("kv read failed, using default")
		}
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("kv value corrupt, using default")
		return def
	}
	return v
}

// Set encodes v as JSON and stores it. Failures are logged and dropped; the
// next Get falls back to its default.
func Set[T any](ctx context.Context, s Store, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("kv encode failed")
		return
	}
	if err := s.Set(ctx, key, raw); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("kv write failed")
	}
}
