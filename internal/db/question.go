package db

import "time"

type Question struct {
	ID               uint      `gorm:"primaryKey"`
	GameID           uint      `gorm:"index;not null;uniqueIndex:idx_questions_game_index"`
	Index            int       `gorm:"column:question_index;not null;uniqueIndex:idx_questions_game_index"`
	TargetString     string    `gorm:"type:text;not null"`
	ReferencePattern string    `gorm:"type:text;not null"`
	TimeSeconds      int       `gorm:"not null"`
	Prompt           string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}
