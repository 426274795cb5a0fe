package repository

import "context"

// RunLock guards against overlapping reconciliation runs. The
// lookup-before-create upsert is not atomic, so two concurrent runs
// can create duplicate rows for the same identifier; holding the lock
// for the duration of a run closes that gap where a lock backend is
// configured.
type RunLock interface {
	// Acquire takes the lock or returns errors.ErrRunLockHeld when
	// another run holds it.
	Acquire(ctx context.Context) error

	// Release frees the lock. Releasing a lock acquired by another
	// run is a no-op.
	Release(ctx context.Context) error
}
