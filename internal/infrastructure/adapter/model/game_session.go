package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameSession represents the database model for game sessions.
// At most one open or opening row per account is enforced by a partial unique index
// created in the migrations.
type GameSession struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	PublicID      string          `gorm:"uniqueIndex;not null;size:36"`
	AccountID     uint64          `gorm:"not null;index"`
	GameID        string          `gorm:"not null;type:text"`
	ProviderToken *string         `gorm:"uniqueIndex;size:255"`
	Status        string          `gorm:"not null;size:16;index"`
	BetTotal      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	WinTotal      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	OpenedAt      time.Time       `gorm:"not null"`
	ClosedAt      *time.Time
	UpdatedAt     time.Time `gorm:"not null;index"`

	Account Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName specifies the table name for GameSession
func (GameSession) TableName() string {
	return "game_sessions"
}
