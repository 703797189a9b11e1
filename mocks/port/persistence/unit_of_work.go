package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

var _ persistence.UnitOfWork = (*MockUnitOfWork)(nil)

// Begin mocks UnitOfWork.Begin
func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).(context.Context); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// Commit mocks UnitOfWork.Commit
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Rollback mocks UnitOfWork.Rollback
func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// GetAccountRepository mocks UnitOfWork.GetAccountRepository
func (m *MockUnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return m.Called(ctx).Get(0).(persistence.AccountRepository)
}

// GetLedgerRepository mocks UnitOfWork.GetLedgerRepository
func (m *MockUnitOfWork) GetLedgerRepository(ctx context.Context) persistence.LedgerRepository {
	return m.Called(ctx).Get(0).(persistence.LedgerRepository)
}

// GetCatalogRepository mocks UnitOfWork.GetCatalogRepository
func (m *MockUnitOfWork) GetCatalogRepository(ctx context.Context) persistence.CatalogRepository {
	return m.Called(ctx).Get(0).(persistence.CatalogRepository)
}

// GetSessionRepository mocks UnitOfWork.GetSessionRepository
func (m *MockUnitOfWork) GetSessionRepository(ctx context.Context) persistence.SessionRepository {
	return m.Called(ctx).Get(0).(persistence.SessionRepository)
}

// GetSyncLockRepository mocks UnitOfWork.GetSyncLockRepository
func (m *MockUnitOfWork) GetSyncLockRepository(ctx context.Context) persistence.SyncLockRepository {
	return m.Called(ctx).Get(0).(persistence.SyncLockRepository)
}
