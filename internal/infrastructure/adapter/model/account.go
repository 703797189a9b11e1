package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents the database model for wallet accounts
type Account struct {
	ID           uint64          `gorm:"primaryKey"`
	Login        string          `gorm:"uniqueIndex;not null;size:64"`
	Name         string          `gorm:"not null;size:128"`
	Role         string          `gorm:"not null;size:16;index"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Currency     string          `gorm:"not null;size:3;default:USD"`
	SupervisorID *uint64         `gorm:"index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
