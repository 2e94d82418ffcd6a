package adapter

import (
	"context"
	"time"
)

// RunLock is a lease-style mutual exclusion primitive for scheduler runs.
// At most one holder owns a key at a time; the lease expires after ttl so a
// crashed holder cannot wedge the scheduler forever.
type RunLock interface {
	// Acquire tries to take the lease. Returns false when another holder
	// owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lease back. Releasing an expired or foreign lease is
	// a no-op.
	Release(ctx context.Context, key string) error
}
