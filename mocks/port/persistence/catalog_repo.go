package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// MockCatalogRepository is a testify mock of persistence.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

var _ persistence.CatalogRepository = (*MockCatalogRepository)(nil)

// FindByIDs mocks CatalogRepository.FindByIDs
func (m *MockCatalogRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.GameCatalogEntry, error) {
	args := m.Called(ctx, ids)
	if found, ok := args.Get(0).(map[string]*entity.GameCatalogEntry); ok {
		return found, args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert mocks CatalogRepository.Insert
func (m *MockCatalogRepository) Insert(ctx context.Context, entry *entity.GameCatalogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// Update mocks CatalogRepository.Update
func (m *MockCatalogRepository) Update(ctx context.Context, entry *entity.GameCatalogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// DeleteNotIn mocks CatalogRepository.DeleteNotIn
func (m *MockCatalogRepository) DeleteNotIn(ctx context.Context, keep []string) (int64, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).(int64), args.Error(1)
}

// List mocks CatalogRepository.List
func (m *MockCatalogRepository) List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error) {
	args := m.Called(ctx, provider, limit, offset)
	if entries, ok := args.Get(0).([]*entity.GameCatalogEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
