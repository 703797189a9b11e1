package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockSessionRepository is a testify mock of persistence.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

var _ persistence.SessionRepository = (*MockSessionRepository)(nil)

func sessionOrNil(v any) *entity.GameSession {
	if s, ok := v.(*entity.GameSession); ok {
		return s
	}
	return nil
}

// Create mocks SessionRepository.Create
func (m *MockSessionRepository) Create(ctx context.Context, session *entity.GameSession) error {
	return m.Called(ctx, session).Error(0)
}

// Update mocks SessionRepository.Update
func (m *MockSessionRepository) Update(ctx context.Context, session *entity.GameSession) error {
	return m.Called(ctx, session).Error(0)
}

// GetByPublicID mocks SessionRepository.GetByPublicID
func (m *MockSessionRepository) GetByPublicID(ctx context.Context, publicID string) (*entity.GameSession, error) {
	args := m.Called(ctx, publicID)
	return sessionOrNil(args.Get(0)), args.Error(1)
}

// LockByProviderToken mocks SessionRepository.LockByProviderToken
func (m *MockSessionRepository) LockByProviderToken(ctx context.Context, token string) (*entity.GameSession, error) {
	args := m.Called(ctx, token)
	return sessionOrNil(args.Get(0)), args.Error(1)
}

// LockActiveByAccount mocks SessionRepository.LockActiveByAccount
func (m *MockSessionRepository) LockActiveByAccount(ctx context.Context, accountID uint64) ([]*entity.GameSession, error) {
	args := m.Called(ctx, accountID)
	if sessions, ok := args.Get(0).([]*entity.GameSession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

// CloseStale mocks SessionRepository.CloseStale
func (m *MockSessionRepository) CloseStale(ctx context.Context, before, closedAt time.Time) (int64, error) {
	args := m.Called(ctx, before, closedAt)
	return args.Get(0).(int64), args.Error(1)
}
