package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockSyncLockRepository is a testify mock of persistence.SyncLockRepository
type MockSyncLockRepository struct {
	mock.Mock
}

var _ persistence.SyncLockRepository = (*MockSyncLockRepository)(nil)

// AcquireTxLock mocks SyncLockRepository.AcquireTxLock
func (m *MockSyncLockRepository) AcquireTxLock(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
