package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a game session
type SessionStatus string

// Session statuses
const (
	SessionOpening SessionStatus = "opening"
	SessionOpen    SessionStatus = "open"
	SessionClosed  SessionStatus = "closed"
)

// GameSession tracks one play session against the upstream provider
type GameSession struct {
	ID            uint64
	PublicID      string
	AccountID     uint64
	GameID        string
	ProviderToken string
	Status        SessionStatus
	BetTotal      decimal.Decimal
	WinTotal      decimal.Decimal
	OpenedAt      time.Time
	ClosedAt      *time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the session still counts against the one-open-session rule
func (s *GameSession) IsActive() bool {
	return s.Status == SessionOpen || s.Status == SessionOpening
}

// Close marks the session closed at the given time; closing twice is a no-op
func (s *GameSession) Close(at time.Time) {
	if s.Status == SessionClosed {
		return
	}
	s.Status = SessionClosed
	s.ClosedAt = &at
	s.UpdatedAt = at
}

// RecordRound adds one bet/win callback to the cumulative totals
func (s *GameSession) RecordRound(bet, win decimal.Decimal, at time.Time) {
	s.BetTotal = s.BetTotal.Add(bet)
	s.WinTotal = s.WinTotal.Add(win)
	s.UpdatedAt = at
}
