package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// MockLedgerUseCase is a testify mock of usecase.LedgerUseCase
type MockLedgerUseCase struct {
	mock.Mock
}

var _ usecase.LedgerUseCase = (*MockLedgerUseCase)(nil)

// Transfer mocks LedgerUseCase.Transfer
func (m *MockLedgerUseCase) Transfer(ctx context.Context, req usecase.TransferRequest) (*usecase.TransferResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*usecase.TransferResult)
	return result, args.Error(1)
}

// GetBalance mocks LedgerUseCase.GetBalance
func (m *MockLedgerUseCase) GetBalance(ctx context.Context, accountID uint64) (*usecase.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	result, _ := args.Get(0).(*usecase.AccountBalance)
	return result, args.Error(1)
}

// ListLedger mocks LedgerUseCase.ListLedger
func (m *MockLedgerUseCase) ListLedger(ctx context.Context, accountID uint64, limit int) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	result, _ := args.Get(0).([]*entity.LedgerEntry)
	return result, args.Error(1)
}
