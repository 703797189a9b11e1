package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// MockWalletUseCase is a testify mock of usecase.WalletUseCase
type MockWalletUseCase struct {
	mock.Mock
}

var _ usecase.WalletUseCase = (*MockWalletUseCase)(nil)

// Handle mocks WalletUseCase.Handle
func (m *MockWalletUseCase) Handle(ctx context.Context, fields map[string]string) usecase.WalletResponse {
	args := m.Called(ctx, fields)
	return args.Get(0).(usecase.WalletResponse)
}
