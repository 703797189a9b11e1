package persistence

import (
	"context"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// AccountRepository defines methods to interact with wallet accounts
type AccountRepository interface {
	// GetByID retrieves an account without locking it
	//
	// Possible errors:
	// - ErrAccountNotFound: If account with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Account, error)

	// GetByLogin retrieves an account by its login identifier
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account uses the login
	GetByLogin(ctx context.Context, login string) (*entity.Account, error)

	// LockByIDs row-locks the given accounts (SELECT ... FOR UPDATE) in ascending ID order
	// and returns them keyed by ID. IDs with no stored account are absent from the map.
	// Must run inside a transaction.
	//
	// Possible errors:
	// - ErrConflict: If the lock could not be obtained
	LockByIDs(ctx context.Context, ids ...uint64) (map[uint64]*entity.Account, error)

	// LockByLogin row-locks the account with the given login. Must run inside a transaction.
	LockByLogin(ctx context.Context, login string) (*entity.Account, error)

	// Create stores a new account
	//
	// Possible errors:
	// - ErrConstraintViolation: If the id or login is taken
	Create(ctx context.Context, account *entity.Account) error

	// UpdateBalance persists the account's balance and updated_at
	//
	// Possible errors:
	// - ErrAccountNotFound: If account doesn't exist
	UpdateBalance(ctx context.Context, account *entity.Account) error
}
