package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents the database model for the append-only balance ledger
type LedgerEntry struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	ActorID     *uint64         `gorm:"index:idx_ledger_actor_created,priority:1"`
	RecipientID uint64          `gorm:"not null;index:idx_ledger_recipient_created,priority:1"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Kind        string          `gorm:"not null;size:16"`
	Reference   *string         `gorm:"size:128;index"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_ledger_actor_created,priority:2;index:idx_ledger_recipient_created,priority:2"`

	Recipient Account `gorm:"foreignKey:RecipientID;references:ID"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
