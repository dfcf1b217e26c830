package server

import "time"

// Round timing is derived from QuestionStartedAt on every read; nothing is
// scheduled. The question's TimeSeconds cannot change once the game is
// active, which is what makes the shifted start times below valid.

func questionLimit(question *Question) time.Duration {
	return time.Duration(question.TimeSeconds) * time.Second
}

func questionOpen(game *Game, question *Question, now time.Time) bool {
	if game.Status != statusActive || question == nil {
		return false
	}
	return now.Sub(game.QuestionStartedAt) <= questionLimit(question)
}

func remainingSeconds(game *Game, question *Question, now time.Time) int {
	remaining := questionLimit(question) - now.Sub(game.QuestionStartedAt)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// extendedStart moves the notional start so that the remaining time becomes
// the previous remaining time, floored at zero, plus delta.
func extendedStart(game *Game, question *Question, now time.Time, delta time.Duration) time.Time {
	limit := questionLimit(question)
	deadline := game.QuestionStartedAt.Add(limit)
	if now.After(deadline) {
		return now.Add(delta - limit)
	}
	return game.QuestionStartedAt.Add(delta)
}

// expiredStart places the start a full round plus one second in the past.
// It relies on TimeSeconds staying fixed once the game is active.
func expiredStart(question *Question, now time.Time) time.Time {
	return now.Add(-questionLimit(question) - time.Second)
}
