package model

import "time"

// GameCatalog represents the database model for synchronized catalog entries
type GameCatalog struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Name        string    `gorm:"not null;type:text"`
	Provider    string    `gorm:"not null;type:text;index"`
	Device      int       `gorm:"not null;default:2"`
	Categories  string    `gorm:"type:text"`
	Thumbnail   string    `gorm:"type:text"`
	Demo        bool      `gorm:"not null;default:false"`
	Bookmark    bool      `gorm:"not null;default:false"`
	RewriteRule bool      `gorm:"not null;default:false"`
	ExitButton  bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for GameCatalog
func (GameCatalog) TableName() string {
	return "game_catalog"
}
