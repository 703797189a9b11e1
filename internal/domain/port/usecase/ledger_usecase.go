package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// TransferRequest carries the initiating actor explicitly instead of ambient request state
type TransferRequest struct {
	ActorRole entity.Role
	ActorID   uint64
	TargetID  uint64
	Amount    string
}

// TransferResult is returned on a committed transfer
type TransferResult struct {
	AccountID  uint64    `json:"accountId"`
	NewBalance string    `json:"balance"`
	Amount     string    `json:"amount"`
	At         time.Time `json:"at"`
}

// AccountBalance is the formatted balance of one account
type AccountBalance struct {
	AccountID uint64 `json:"accountId"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

// LedgerUseCase defines balance ledger operations
type LedgerUseCase interface {
	// Transfer applies a role-checked balance adjustment and appends its audit entry atomically
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)

	// GetBalance returns an account's balance with two decimal places
	GetBalance(ctx context.Context, accountID uint64) (*AccountBalance, error)

	// ListLedger returns an account's most recent ledger entries, newest first
	ListLedger(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error)
}
