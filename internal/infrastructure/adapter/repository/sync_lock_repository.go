package repository

import (
	"context"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// SyncLockRepository implements named cross-process locks on top of
// PostgreSQL transaction-scoped advisory locks
type SyncLockRepository struct {
	db              *gorm.DB
	inTx            bool
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSyncLockRepository creates a new SyncLockRepository instance.
// inTx must report whether db is bound to an open transaction.
func NewSyncLockRepository(db *gorm.DB, inTx bool, logger coreport.Logger) *SyncLockRepository {
	return &SyncLockRepository{
		db:              db,
		inTx:            inTx,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// AcquireTxLock blocks until the advisory lock derived from name is held
func (r *SyncLockRepository) AcquireTxLock(ctx context.Context, name string) error {
	if !r.inTx {
		r.logger.Error("Advisory lock requested outside a transaction", map[string]any{
			"lock": name,
		})
		return errs.ErrInternalServer
	}

	r.logger.Debug("Acquiring advisory lock", map[string]any{"lock": name})
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", name).Error; err != nil {
		r.logger.Error("Failed to acquire advisory lock", map[string]any{
			"lock":  name,
			"error": err.Error(),
		})
		return r.errorClassifier.MapError(err, errs.ErrNotFound)
	}

	r.logger.Debug("Advisory lock acquired", map[string]any{"lock": name})
	return nil
}
