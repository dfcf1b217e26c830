package scoring

import (
	"math"

	"regex-game/internal/match"
)

const (
	FullScore   = 100
	StreakBonus = 50
)

type Result struct {
	Score        int
	FullScore    bool
	TargetCount  int
	CorrectCount int
	ExtraCount   int
}

// Compare scores a candidate mask against the reference mask. Positions past
// the end of the shorter mask count as uncovered.
func Compare(reference, candidate match.Mask) Result {
	var res Result
	for i, want := range reference {
		got := i < len(candidate) && candidate[i]
		if want {
			res.TargetCount++
			if got {
				res.CorrectCount++
			}
		} else if got {
			res.ExtraCount++
		}
	}
	for i := len(reference); i < len(candidate); i++ {
		if candidate[i] {
			res.ExtraCount++
		}
	}
	res.Score = scoreFromCounts(res.TargetCount, res.CorrectCount, res.ExtraCount)
	res.FullScore = res.Score == FullScore
	return res
}

func scoreFromCounts(target, correct, extra int) int {
	if target == 0 {
		if extra == 0 {
			return FullScore
		}
		return 0
	}
	raw := float64(correct-extra) / float64(target)
	if raw < 0 {
		raw = 0
	}
	return int(math.Round(FullScore * raw))
}

type Streak struct {
	Bonus     int
	NextCount int
}

// NextStreak applies the streak rule for a submission on questionIndex. A
// streak only continues when the previous full score was on the immediately
// preceding question.
func NextStreak(fullScore bool, questionIndex, lastFullScoreIndex, streakCount int) Streak {
	consecutive := questionIndex > 0 && lastFullScoreIndex == questionIndex-1
	switch {
	case fullScore && consecutive:
		return Streak{Bonus: StreakBonus, NextCount: streakCount + 1}
	case fullScore:
		return Streak{NextCount: 1}
	default:
		return Streak{}
	}
}
