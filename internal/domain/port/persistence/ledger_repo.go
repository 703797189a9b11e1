package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// CreditSumFilter selects the positive ledger amounts counted against a daily cap
type CreditSumFilter struct {
	ActorID     uint64
	RecipientID *uint64 // nil sums over all recipients
	Since       time.Time
	Until       time.Time
}

// LedgerRepository is the append-only audit trail of balance mutations
type LedgerRepository interface {
	// Append inserts one entry; entries are never updated or deleted
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// SumCredits returns the sum of positive amounts matching the filter, zero when none
	SumCredits(ctx context.Context, filter CreditSumFilter) (decimal.Decimal, error)

	// ListByRecipient returns the newest entries of an account first
	ListByRecipient(ctx context.Context, recipientID uint64, limit int) ([]*entity.LedgerEntry, error)

	// ReferenceExists reports whether a provider trade reference was already booked
	ReferenceExists(ctx context.Context, reference string) (bool, error)
}
