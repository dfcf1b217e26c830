package db

import "time"

type Game struct {
	ID                   uint      `gorm:"primaryKey"`
	JoinCode             string    `gorm:"size:12;uniqueIndex;not null"`
	HostToken            string    `gorm:"size:64;not null"`
	Status               string    `gorm:"size:16;not null;index"`
	CurrentQuestionIndex int       `gorm:"not null;default:0"`
	QuestionStartedAt    time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
	Questions            []Question
	Players              []Player
	Events               []Event
}
