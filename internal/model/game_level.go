package model

import "time"

// GameLevel is one level-completion event. Rows are history: a player may have many.
type GameLevel struct {
	UUIDBase
	Email              string    `gorm:"size:255;index;not null" json:"email"`
	LevelTime          *float64  `json:"level_time"`
	TotalGameTime      *float64  `json:"total_game_time"`
	LastCompletedLevel int       `gorm:"not null" json:"last_completed_level"`
	CompletedAt        time.Time `json:"completed_at"`
}

func (GameLevel) TableName() string {
	return "game_levels"
}
