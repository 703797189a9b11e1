package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// MockCatalogUseCase is a testify mock of usecase.CatalogUseCase
type MockCatalogUseCase struct {
	mock.Mock
}

var _ usecase.CatalogUseCase = (*MockCatalogUseCase)(nil)

// Sync mocks CatalogUseCase.Sync
func (m *MockCatalogUseCase) Sync(ctx context.Context, opts usecase.SyncOptions) (*entity.SyncResult, error) {
	args := m.Called(ctx, opts)
	result, _ := args.Get(0).(*entity.SyncResult)
	return result, args.Error(1)
}

// Preview mocks CatalogUseCase.Preview
func (m *MockCatalogUseCase) Preview(ctx context.Context, req upstream.GameListRequest) ([]*entity.GameCatalogEntry, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).([]*entity.GameCatalogEntry)
	return result, args.Error(1)
}

// List mocks CatalogUseCase.List
func (m *MockCatalogUseCase) List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error) {
	args := m.Called(ctx, provider, limit, offset)
	result, _ := args.Get(0).([]*entity.GameCatalogEntry)
	return result, args.Error(1)
}
