package state

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("state: key not found")

// Store persists small pieces of per-browser-context state as plain text.
// A zero ttl means the entry never expires; expiry is enforced by the store
// itself, not by callers.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
