package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockLedgerRepository is a testify mock of persistence.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

var _ persistence.LedgerRepository = (*MockLedgerRepository)(nil)

// Append mocks LedgerRepository.Append
func (m *MockLedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// SumCredits mocks LedgerRepository.SumCredits
func (m *MockLedgerRepository) SumCredits(ctx context.Context, filter persistence.CreditSumFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// ListByRecipient mocks LedgerRepository.ListByRecipient
func (m *MockLedgerRepository) ListByRecipient(ctx context.Context, recipientID uint64, limit int) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, recipientID, limit)
	if entries, ok := args.Get(0).([]*entity.LedgerEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// ReferenceExists mocks LedgerRepository.ReferenceExists
func (m *MockLedgerRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}
