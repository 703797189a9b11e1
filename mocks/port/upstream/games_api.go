package upstream

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
)

// MockGamesAPI is a testify mock of upstream.GamesAPI
type MockGamesAPI struct {
	mock.Mock
}

var _ upstream.GamesAPI = (*MockGamesAPI)(nil)

func rawOrNil(v any) json.RawMessage {
	switch raw := v.(type) {
	case json.RawMessage:
		return raw
	case string:
		return json.RawMessage(raw)
	default:
		return nil
	}
}

// FetchGameList mocks GamesAPI.FetchGameList
func (m *MockGamesAPI) FetchGameList(ctx context.Context, req upstream.GameListRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	return rawOrNil(args.Get(0)), args.Error(1)
}

// OpenGame mocks GamesAPI.OpenGame
func (m *MockGamesAPI) OpenGame(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	return rawOrNil(args.Get(0)), args.Error(1)
}

// FetchJackpots mocks GamesAPI.FetchJackpots
func (m *MockGamesAPI) FetchJackpots(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return rawOrNil(args.Get(0)), args.Error(1)
}
