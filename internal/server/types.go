package server

import (
	"time"

	"regex-game/internal/match"
	"regex-game/internal/scoring"
)

const (
	statusSetup    = "setup"
	statusActive   = "active"
	statusFinished = "finished"
)

const (
	callerOK      = "ok"
	callerKicked  = "kicked"
	callerUnknown = "unknown"
)

const (
	reasonTimeUp           = "time is up"
	reasonAlreadySubmitted = "already submitted"
)

const defaultPrompt = "Match the green highlights exactly."

type Game struct {
	ID                   string
	DBID                 uint
	JoinCode             string
	HostToken            string
	Status               string
	CurrentQuestionIndex int
	QuestionStartedAt    time.Time
	CreatedAt            time.Time
	Questions            []Question
	Players              []Player
	Submissions          []Submission
	KickedPlayers        map[int]struct{}
}

type Question struct {
	ID               int
	DBID             uint
	Index            int
	TargetString     string
	ReferencePattern string
	TimeSeconds      int
	Prompt           string
	// Reference is the evaluated ReferencePattern, filled when questions
	// are loaded or restored.
	Reference match.Result
}

type Player struct {
	ID                         int
	DBID                       uint
	ExternalUID                string
	Name                       string
	TotalScore                 int
	StreakCount                int
	LastFullScoreQuestionIndex int
	JoinedAt                   time.Time
}

type Submission struct {
	ID            int
	DBID          uint
	PlayerID      int
	QuestionIndex int
	Pattern       string
	Score         int
	FullScore     bool
	StreakBonus   int
	SubmittedAt   time.Time
}

type QuestionInput struct {
	TargetString     string `json:"target_string"`
	ReferencePattern string `json:"reference_pattern"`
	TimeSeconds      int    `json:"time_seconds"`
	Prompt           string `json:"prompt,omitempty"`
}

type CreatedGame struct {
	GameID    string `json:"game_id"`
	JoinCode  string `json:"join_code"`
	HostToken string `json:"host_token"`
}

type JoinedGame struct {
	GameID   string `json:"game_id"`
	PlayerID int    `json:"player_id"`
	JoinCode string `json:"join_code"`
	Resumed  bool   `json:"resumed"`
}

// PreviewResult carries a candidate evaluation and, when a reference was
// supplied, the reference evaluation and the would-be score.
type PreviewResult struct {
	Candidate match.Result
	Reference *match.Result
	Score     *scoring.Result
}

type SubmitResult struct {
	Accepted    bool   `json:"accepted"`
	Score       *int   `json:"score,omitempty"`
	FullScore   *bool  `json:"full_score,omitempty"`
	StreakBonus *int   `json:"streak_bonus,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type GameSummary struct {
	ID                   string    `json:"id"`
	JoinCode             string    `json:"code"`
	Status               string    `json:"status"`
	CurrentQuestionIndex int       `json:"current_question_index"`
	QuestionStartedAt    time.Time `json:"question_started_at"`
	CreatedAt            time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	PlayerID    int    `json:"player_id"`
	Name        string `json:"name"`
	TotalScore  int    `json:"total_score"`
	StreakCount int    `json:"streak_count"`
	Rank        int    `json:"rank"`
}

type QuestionView struct {
	Index            int           `json:"index"`
	TargetString     string        `json:"target_string"`
	TimeSeconds      int           `json:"time_seconds"`
	Prompt           string        `json:"prompt"`
	HighlightRanges  []match.Range `json:"highlight_ranges"`
	ReferencePattern string        `json:"reference_pattern,omitempty"`
}

type GameState struct {
	Game             GameSummary        `json:"game"`
	CurrentQuestion  *QuestionView      `json:"current_question"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
	AroundPlayer     []LeaderboardEntry `json:"around_player"`
	CallerRank       *int               `json:"caller_rank"`
	CallerStatus     string             `json:"caller_status"`
	IsHost           bool               `json:"is_host"`
	QuestionOpen     bool               `json:"question_open"`
	RemainingSeconds *int               `json:"remaining_seconds"`
	TotalQuestions   int                `json:"total_questions"`
}
