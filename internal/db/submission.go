package db

import "time"

// Submission rows are unique per game, player and question.
type Submission struct {
	ID            uint      `gorm:"primaryKey"`
	GameID        uint      `gorm:"index;not null;uniqueIndex:idx_submissions_game_player_question"`
	PlayerID      uint      `gorm:"index;not null;uniqueIndex:idx_submissions_game_player_question"`
	QuestionIndex int       `gorm:"not null;uniqueIndex:idx_submissions_game_player_question"`
	Pattern       string    `gorm:"type:text;not null"`
	Score         int       `gorm:"not null"`
	FullScore     bool      `gorm:"not null;default:false"`
	StreakBonus   int       `gorm:"not null;default:0"`
	SubmittedAt   time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}
