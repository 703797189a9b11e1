package usecase

import (
	"context"
	"encoding/json"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// OpenGameRequest starts a play session for an account
type OpenGameRequest struct {
	AccountID uint64
	GameID    string
	Demo      bool
	Params    map[string]string // passed through to the provider
}

// OpenGameResult carries the session and the provider payload used to launch the game
type OpenGameResult struct {
	Session *entity.GameSession
	Content json.RawMessage
}

// SessionUseCase defines game session operations
type SessionUseCase interface {
	OpenGame(ctx context.Context, req OpenGameRequest) (*OpenGameResult, error)
	CloseSession(ctx context.Context, publicID string) (*entity.GameSession, error)
	SweepStale(ctx context.Context) (int64, error)
	Jackpots(ctx context.Context) (json.RawMessage, error)
}
