package db

import (
	"time"

	"gorm.io/datatypes"
)

// Match is one dealt game, from start or admin reset to the next one.
type Match struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	RoomID    string         `gorm:"size:64;not null;index"`
	Players   datatypes.JSON `gorm:"type:jsonb;not null"`
	StartedAt time.Time      `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
	Logs      []MatchLog
}

type MatchLog struct {
	ID        uint      `gorm:"primaryKey"`
	MatchID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_match_logs_match_seq"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_match_logs_match_seq"`
	Line      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
