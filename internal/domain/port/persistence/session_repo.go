package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// SessionRepository stores game sessions
type SessionRepository interface {
	// Create stores a new session and assigns its ID
	//
	// Possible errors:
	// - ErrConflict: If the account already has an active session
	Create(ctx context.Context, session *entity.GameSession) error

	// Update persists status, token, totals and timestamps
	Update(ctx context.Context, session *entity.GameSession) error

	// GetByPublicID retrieves a session by its public identifier
	//
	// Possible errors:
	// - ErrSessionNotFound: If no session matches
	GetByPublicID(ctx context.Context, publicID string) (*entity.GameSession, error)

	// LockByProviderToken row-locks the session the provider refers to
	//
	// Possible errors:
	// - ErrSessionNotFound: If no session matches
	LockByProviderToken(ctx context.Context, token string) (*entity.GameSession, error)

	// LockActiveByAccount row-locks every open or opening session of the account
	LockActiveByAccount(ctx context.Context, accountID uint64) ([]*entity.GameSession, error)

	// CloseStale closes active sessions not updated since before and returns the count
	CloseStale(ctx context.Context, before, closedAt time.Time) (int64, error)
}
