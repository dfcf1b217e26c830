package server

import (
	"errors"
	"log"
	"strings"
	"time"

	"regex-game/internal/scoring"
)

// SubmitAnswer scores pattern against the current question. Late and
// repeated submissions come back declined with a nil error. The pattern is
// evaluated without holding the game lock; the checks run again under the
// lock before anything is recorded.
func (s *Server) SubmitAnswer(gameID string, playerID int, pattern string) (SubmitResult, error) {
	var target Question
	var result SubmitResult
	var done bool
	err := s.store.ViewGame(gameID, func(game *Game) error {
		question, reason, err := checkSubmission(game, playerID, pattern, s.now())
		if err != nil {
			return err
		}
		if reason != "" {
			result, done = declined(reason), true
			return nil
		}
		target = *question
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	if done {
		return result, nil
	}

	candidate := s.engine.Evaluate(pattern, target.TargetString)
	scored := scoring.Compare(target.Reference.Mask, candidate.Mask)

	err = s.store.UpdateGame(gameID, func(game *Game) error {
		now := s.now()
		question, reason, err := checkSubmission(game, playerID, pattern, now)
		if err != nil {
			return err
		}
		if reason != "" {
			result = declined(reason)
			return nil
		}
		if question.ID != target.ID || question.Index != target.Index {
			result = declined(reasonTimeUp)
			return nil
		}
		player, idx := findPlayer(game, playerID)
		streak := scoring.NextStreak(scored.FullScore, question.Index, player.LastFullScoreQuestionIndex, player.StreakCount)
		updated := *player
		updated.TotalScore += scored.Score + streak.Bonus
		updated.StreakCount = streak.NextCount
		if scored.FullScore {
			updated.LastFullScoreQuestionIndex = question.Index
		}
		submission := Submission{
			PlayerID:      playerID,
			QuestionIndex: question.Index,
			Pattern:       pattern,
			Score:         scored.Score,
			FullScore:     scored.FullScore,
			StreakBonus:   streak.Bonus,
			SubmittedAt:   now,
		}
		if err := s.persistSubmission(game, &updated, &submission); err != nil {
			if errors.Is(err, errSubmissionExists) {
				result = declined(reasonAlreadySubmitted)
				return nil
			}
			return err
		}
		submission.ID = s.store.newSubmissionID(submission.DBID)
		game.Players[idx] = updated
		game.Submissions = append(game.Submissions, submission)
		result = accepted(submission)
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	if result.Accepted {
		log.Printf("submission scored game_id=%s player_id=%d score=%d streak_bonus=%d", gameID, playerID, *result.Score, *result.StreakBonus)
		s.broadcastGame(gameID)
	}
	return result, nil
}

// checkSubmission applies the submission preconditions in order. A non-empty
// reason means the submission is declined rather than failed.
func checkSubmission(game *Game, playerID int, pattern string, now time.Time) (*Question, string, error) {
	if game.Status != statusActive {
		return nil, "", errNotActive
	}
	question := currentQuestion(game)
	if question == nil {
		return nil, "", errQuestionNotFound
	}
	if strings.TrimSpace(pattern) == "" {
		return nil, "", invalidInput("pattern is required")
	}
	if !questionOpen(game, question, now) {
		return question, reasonTimeUp, nil
	}
	if hasSubmission(game, playerID, question.Index) {
		return question, reasonAlreadySubmitted, nil
	}
	if player, _ := findPlayer(game, playerID); player == nil {
		return nil, "", errPlayerNotFound
	}
	return question, "", nil
}

// evaluateReference caches the reference coverage on question. Questions
// are immutable once a game is active, so the cache never goes stale.
func (s *Server) evaluateReference(gameID string, question *Question) {
	question.Reference = s.engine.Evaluate(question.ReferencePattern, question.TargetString)
	if !question.Reference.OK() {
		log.Printf("reference pattern failed game_id=%s question_index=%d error=%v", gameID, question.Index, question.Reference.Err)
	}
}

// Preview evaluates pattern against target outside any game. When reference
// is set the would-be score is included.
func (s *Server) Preview(pattern, target, reference string) (PreviewResult, error) {
	if len([]rune(target)) > s.cfg.MaxTargetLength {
		return PreviewResult{}, invalidInput("target is too long")
	}
	candidate := s.engine.Evaluate(pattern, target)
	result := PreviewResult{Candidate: candidate}
	if reference != "" {
		ref := s.engine.Evaluate(reference, target)
		scored := scoring.Compare(ref.Mask, candidate.Mask)
		result.Reference = &ref
		result.Score = &scored
	}
	return result, nil
}

func hasSubmission(game *Game, playerID, questionIndex int) bool {
	for _, submission := range game.Submissions {
		if submission.PlayerID == playerID && submission.QuestionIndex == questionIndex {
			return true
		}
	}
	return false
}

func declined(reason string) SubmitResult {
	return SubmitResult{Accepted: false, Reason: reason}
}

func accepted(submission Submission) SubmitResult {
	score := submission.Score
	full := submission.FullScore
	bonus := submission.StreakBonus
	return SubmitResult{
		Accepted:    true,
		Score:       &score,
		FullScore:   &full,
		StreakBonus: &bonus,
	}
}
