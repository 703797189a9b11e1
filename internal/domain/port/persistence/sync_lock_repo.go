package persistence

import "context"

// SyncLockRepository serializes writers that must not interleave across processes
type SyncLockRepository interface {
	// AcquireTxLock blocks until the named lock is held by the current transaction.
	// The lock is released automatically on commit or rollback.
	//
	// Possible errors:
	// - ErrInternalServer: If called outside a transaction
	// - ErrDatabaseConnection: If database connection fails
	AcquireTxLock(ctx context.Context, name string) error
}
