package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockAccountRepository is a testify mock of persistence.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

var _ persistence.AccountRepository = (*MockAccountRepository)(nil)

func accountOrNil(v any) *entity.Account {
	if a, ok := v.(*entity.Account); ok {
		return a
	}
	return nil
}

// GetByID mocks AccountRepository.GetByID
func (m *MockAccountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	return accountOrNil(args.Get(0)), args.Error(1)
}

// GetByLogin mocks AccountRepository.GetByLogin
func (m *MockAccountRepository) GetByLogin(ctx context.Context, login string) (*entity.Account, error) {
	args := m.Called(ctx, login)
	return accountOrNil(args.Get(0)), args.Error(1)
}

// LockByIDs mocks AccountRepository.LockByIDs
func (m *MockAccountRepository) LockByIDs(ctx context.Context, ids ...uint64) (map[uint64]*entity.Account, error) {
	args := m.Called(ctx, ids)
	if accounts, ok := args.Get(0).(map[uint64]*entity.Account); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

// LockByLogin mocks AccountRepository.LockByLogin
func (m *MockAccountRepository) LockByLogin(ctx context.Context, login string) (*entity.Account, error) {
	args := m.Called(ctx, login)
	return accountOrNil(args.Get(0)), args.Error(1)
}

// Create mocks AccountRepository.Create
func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

// UpdateBalance mocks AccountRepository.UpdateBalance
func (m *MockAccountRepository) UpdateBalance(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}
