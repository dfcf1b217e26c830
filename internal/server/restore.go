package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"regex-game/internal/db"
)

// RestoreGames loads every unfinished game from the database into memory.
func (s *Server) RestoreGames() (int, error) {
	if s.db == nil {
		return 0, errors.New("database not configured")
	}
	var records []db.Game
	if err := s.db.Where("status IN ?", []string{statusSetup, statusActive}).Order("id asc").Find(&records).Error; err != nil {
		return 0, err
	}
	restored := 0
	for _, record := range records {
		game, err := s.loadGame(record)
		if err != nil {
			return restored, fmt.Errorf("restore game %d: %w", record.ID, err)
		}
		if err := s.store.RestoreGame(game); err != nil {
			log.Printf("restore skipped game_id=%s error=%v", game.ID, err)
			continue
		}
		restored++
	}
	log.Printf("games restored count=%d", restored)
	return restored, nil
}

func (s *Server) loadGame(record db.Game) (*Game, error) {
	game := &Game{
		ID:                   fmt.Sprintf("game-%d", record.ID),
		DBID:                 record.ID,
		JoinCode:             record.JoinCode,
		HostToken:            record.HostToken,
		Status:               record.Status,
		CurrentQuestionIndex: record.CurrentQuestionIndex,
		QuestionStartedAt:    record.QuestionStartedAt.UTC(),
		CreatedAt:            record.CreatedAt.UTC(),
		KickedPlayers:        make(map[int]struct{}),
	}

	var questions []db.Question
	if err := s.db.Where("game_id = ?", record.ID).Order("question_index asc").Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, row := range questions {
		question := Question{
			ID:               int(row.ID),
			DBID:             row.ID,
			Index:            row.Index,
			TargetString:     row.TargetString,
			ReferencePattern: row.ReferencePattern,
			TimeSeconds:      row.TimeSeconds,
			Prompt:           row.Prompt,
		}
		s.evaluateReference(game.ID, &question)
		game.Questions = append(game.Questions, question)
	}

	var players []db.Player
	if err := s.db.Where("game_id = ?", record.ID).Order("joined_at asc, id asc").Find(&players).Error; err != nil {
		return nil, err
	}
	for _, player := range players {
		game.Players = append(game.Players, Player{
			ID:                         int(player.ID),
			DBID:                       player.ID,
			ExternalUID:                player.ExternalUID,
			Name:                       player.Name,
			TotalScore:                 player.TotalScore,
			StreakCount:                player.StreakCount,
			LastFullScoreQuestionIndex: player.LastFullScoreQuestionIndex,
			JoinedAt:                   player.JoinedAt.UTC(),
		})
	}

	var submissions []db.Submission
	if err := s.db.Where("game_id = ?", record.ID).Order("id asc").Find(&submissions).Error; err != nil {
		return nil, err
	}
	for _, submission := range submissions {
		game.Submissions = append(game.Submissions, Submission{
			ID:            int(submission.ID),
			DBID:          submission.ID,
			PlayerID:      int(submission.PlayerID),
			QuestionIndex: submission.QuestionIndex,
			Pattern:       submission.Pattern,
			Score:         submission.Score,
			FullScore:     submission.FullScore,
			StreakBonus:   submission.StreakBonus,
			SubmittedAt:   submission.SubmittedAt.UTC(),
		})
	}

	var kicks []db.Event
	if err := s.db.Where("game_id = ? AND type = ?", record.ID, eventPlayerKicked).Find(&kicks).Error; err != nil {
		return nil, err
	}
	for _, event := range kicks {
		var payload EventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			continue
		}
		if payload.PlayerID > 0 {
			game.KickedPlayers[payload.PlayerID] = struct{}{}
		}
	}
	return game, nil
}
