package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no value (or it expired).
var ErrNotFound = errors.New("kv: key not found")

// Store is a string key/value store with per-key TTL. It backs the
// per-user session state: cart, cart-timestamp, delivery-fee,
// dietary-preferences and language keys, all JSON-encoded strings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
