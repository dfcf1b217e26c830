package db

import "time"

type Player struct {
	ID                         uint      `gorm:"primaryKey"`
	GameID                     uint      `gorm:"index;not null;uniqueIndex:idx_players_game_uid"`
	ExternalUID                string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_uid"`
	Name                       string    `gorm:"size:64;not null"`
	TotalScore                 int       `gorm:"not null;default:0"`
	StreakCount                int       `gorm:"not null;default:0"`
	LastFullScoreQuestionIndex int       `gorm:"not null;default:-1"`
	JoinedAt                   time.Time `gorm:"not null"`
	CreatedAt                  time.Time `gorm:"not null"`
	UpdatedAt                  time.Time `gorm:"not null"`
	Submissions                []Submission
}
