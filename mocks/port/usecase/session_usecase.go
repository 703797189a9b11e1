package usecase

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// MockSessionUseCase is a testify mock of usecase.SessionUseCase
type MockSessionUseCase struct {
	mock.Mock
}

var _ usecase.SessionUseCase = (*MockSessionUseCase)(nil)

// OpenGame mocks SessionUseCase.OpenGame
func (m *MockSessionUseCase) OpenGame(ctx context.Context, req usecase.OpenGameRequest) (*usecase.OpenGameResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*usecase.OpenGameResult)
	return result, args.Error(1)
}

// CloseSession mocks SessionUseCase.CloseSession
func (m *MockSessionUseCase) CloseSession(ctx context.Context, publicID string) (*entity.GameSession, error) {
	args := m.Called(ctx, publicID)
	result, _ := args.Get(0).(*entity.GameSession)
	return result, args.Error(1)
}

// SweepStale mocks SessionUseCase.SweepStale
func (m *MockSessionUseCase) SweepStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Jackpots mocks SessionUseCase.Jackpots
func (m *MockSessionUseCase) Jackpots(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	switch raw := args.Get(0).(type) {
	case json.RawMessage:
		return raw, args.Error(1)
	case string:
		return json.RawMessage(raw), args.Error(1)
	default:
		return nil, args.Error(1)
	}
}
