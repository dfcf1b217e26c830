package server

import (
	"encoding/json"
	"errors"

	"regex-game/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errSubmissionExists = errors.New("submission already recorded")

// Every persist helper runs before the in-memory game is changed and is a
// no-op without a database. A returned error aborts the mutation.

func (s *Server) persistNewGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		JoinCode:             game.JoinCode,
		HostToken:            game.HostToken,
		Status:               game.Status,
		CurrentQuestionIndex: game.CurrentQuestionIndex,
		QuestionStartedAt:    game.CreatedAt,
		CreatedAt:            game.CreatedAt,
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return errJoinCodeTaken
			}
			return err
		}
		if err := createEvent(tx, record.ID, nil, eventGameCreated, EventPayload{
			JoinCode: game.JoinCode,
		}); err != nil {
			return err
		}
		game.DBID = record.ID
		return nil
	})
}

// persistGameState writes the timer and status columns of next.
func (s *Server) persistGameState(next *Game, eventType string, payload EventPayload) error {
	if s.db == nil || next.DBID == 0 {
		return nil
	}
	updates := map[string]any{
		"status":                 next.Status,
		"current_question_index": next.CurrentQuestionIndex,
		"question_started_at":    next.QuestionStartedAt,
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Game{}).Where("id = ?", next.DBID).Updates(updates).Error; err != nil {
			return err
		}
		return createEvent(tx, next.DBID, nil, eventType, payload)
	})
}

// persistQuestions replaces the stored question set and fills in DBID on
// each entry of questions.
func (s *Server) persistQuestions(game *Game, questions []Question) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.DBID).Delete(&db.Question{}).Error; err != nil {
			return err
		}
		records := make([]db.Question, len(questions))
		for i, question := range questions {
			records[i] = db.Question{
				GameID:           game.DBID,
				Index:            question.Index,
				TargetString:     question.TargetString,
				ReferencePattern: question.ReferencePattern,
				TimeSeconds:      question.TimeSeconds,
				Prompt:           question.Prompt,
			}
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		if err := createEvent(tx, game.DBID, nil, eventQuestionsLoaded, EventPayload{
			Count: len(records),
		}); err != nil {
			return err
		}
		for i := range questions {
			questions[i].DBID = records[i].ID
		}
		return nil
	})
}

func (s *Server) persistPlayer(game *Game, player *Player) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	record := db.Player{
		GameID:                     game.DBID,
		ExternalUID:                player.ExternalUID,
		Name:                       player.Name,
		LastFullScoreQuestionIndex: player.LastFullScoreQuestionIndex,
		JoinedAt:                   player.JoinedAt,
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := createEvent(tx, game.DBID, &record.ID, eventPlayerJoined, EventPayload{
			PlayerName: player.Name,
		}); err != nil {
			return err
		}
		player.DBID = record.ID
		return nil
	})
}

func (s *Server) persistPlayerName(game *Game, player *Player) error {
	if s.db == nil || game.DBID == 0 || player.DBID == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Player{}).Where("id = ?", player.DBID).Update("name", player.Name).Error; err != nil {
			return err
		}
		return createEvent(tx, game.DBID, &player.DBID, eventPlayerRejoined, EventPayload{
			PlayerName: player.Name,
		})
	})
}

// persistSubmission records submission and the player's new totals in one
// transaction. A duplicate row reports errSubmissionExists.
func (s *Server) persistSubmission(game *Game, player *Player, submission *Submission) error {
	if s.db == nil || game.DBID == 0 || player.DBID == 0 {
		return nil
	}
	record := db.Submission{
		GameID:        game.DBID,
		PlayerID:      player.DBID,
		QuestionIndex: submission.QuestionIndex,
		Pattern:       submission.Pattern,
		Score:         submission.Score,
		FullScore:     submission.FullScore,
		StreakBonus:   submission.StreakBonus,
		SubmittedAt:   submission.SubmittedAt,
	}
	updates := map[string]any{
		"total_score":                    player.TotalScore,
		"streak_count":                   player.StreakCount,
		"last_full_score_question_index": player.LastFullScoreQuestionIndex,
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return errSubmissionExists
			}
			return err
		}
		if err := tx.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error; err != nil {
			return err
		}
		if err := createEvent(tx, game.DBID, &player.DBID, eventSubmissionScored, EventPayload{
			QuestionIndex: intPtr(submission.QuestionIndex),
			Pattern:       submission.Pattern,
			Score:         intPtr(submission.Score),
			StreakBonus:   submission.StreakBonus,
		}); err != nil {
			return err
		}
		submission.DBID = record.ID
		return nil
	})
}

// persistKick deletes the player's rows. The event keeps the in-memory id so
// the kicked set can be rebuilt on restore.
func (s *Server) persistKick(game *Game, player *Player) error {
	if s.db == nil || game.DBID == 0 || player.DBID == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", player.DBID).Delete(&db.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&db.Player{}, player.DBID).Error; err != nil {
			return err
		}
		return createEvent(tx, game.DBID, nil, eventPlayerKicked, EventPayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
		})
	})
}

func createEvent(tx *gorm.DB, gameDBID uint, playerDBID *uint, eventType string, payload EventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:   gameDBID,
		PlayerID: playerDBID,
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return tx.Create(&event).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
