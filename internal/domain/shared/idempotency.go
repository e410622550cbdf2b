package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of a request keyed by a
// client-supplied idempotency key.
type IdempotencyStore interface {
	// Reserve claims key for the caller. It returns false when the key is
	// already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result reference for a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the stored result reference. An empty string with
	// found=true means the key is reserved but not completed yet.
	Result(ctx context.Context, key string) (result string, found bool, err error)

	// Release drops a reservation so the key can be retried
	Release(ctx context.Context, key string) error
}
