package ledger

import (
	"context"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// DefaultHistoryLimit bounds ListLedger when the caller passes no limit
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the largest page ListLedger returns
const MaxHistoryLimit = 500

// Service implements the balance ledger
type Service struct {
	uow          persistence.UnitOfWork
	limits       Limits
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.LedgerUseCase = (*Service)(nil)

// NewService creates a ledger service
func NewService(
	uow persistence.UnitOfWork,
	limits Limits,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	if limits.Location == nil {
		limits.Location = timeProvider.Location()
	}
	return &Service{
		uow:          uow,
		limits:       limits,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetBalance returns an account's balance with two decimal places
func (s *Service) GetBalance(ctx context.Context, accountID uint64) (*usecase.AccountBalance, error) {
	if accountID == 0 {
		return nil, errs.ErrInvalidAccountID
	}

	account, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &usecase.AccountBalance{
		AccountID: account.ID,
		Balance:   account.FormattedBalance(),
		Currency:  account.Currency,
	}, nil
}

// ListLedger returns the newest ledger entries of an account
func (s *Service) ListLedger(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error) {
	if accountID == 0 {
		return nil, errs.ErrInvalidAccountID
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	if _, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.uow.GetLedgerRepository(ctx).ListByRecipient(ctx, accountID, limit)
}
