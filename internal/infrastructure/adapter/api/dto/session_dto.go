package dto

import (
	"encoding/json"
	"time"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// OpenGameRequest starts a game session for an account
type OpenGameRequest struct {
	AccountID uint64            `json:"accountId" binding:"required"`
	Demo      bool              `json:"demo"`
	Params    map[string]string `json:"params"`
}

// SessionResponse describes a game session
type SessionResponse struct {
	SessionID string     `json:"sessionId"`
	AccountID uint64     `json:"accountId"`
	GameID    string     `json:"gameId"`
	Status    string     `json:"status"`
	BetTotal  string     `json:"betTotal"`
	WinTotal  string     `json:"winTotal"`
	OpenedAt  time.Time  `json:"openedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// OpenGameResponse carries the session and the provider launch payload
type OpenGameResponse struct {
	Session SessionResponse `json:"session"`
	Content json.RawMessage `json:"content,omitempty"`
}

// NewSessionResponse maps a domain session; the provider token stays server side
func NewSessionResponse(s *entity.GameSession) SessionResponse {
	return SessionResponse{
		SessionID: s.PublicID,
		AccountID: s.AccountID,
		GameID:    s.GameID,
		Status:    string(s.Status),
		BetTotal:  entity.FormatMoney(s.BetTotal),
		WinTotal:  entity.FormatMoney(s.WinTotal),
		OpenedAt:  s.OpenedAt,
		ClosedAt:  s.ClosedAt,
	}
}
