package server

const (
	eventGameCreated      = "game_created"
	eventQuestionsLoaded  = "questions_loaded"
	eventGameStarted      = "game_started"
	eventQuestionAdvanced = "question_advanced"
	eventQuestionExtended = "question_extended"
	eventQuestionEnded    = "question_ended"
	eventGameFinished     = "game_finished"
	eventPlayerJoined     = "player_joined"
	eventPlayerRejoined   = "player_rejoined"
	eventPlayerKicked     = "player_kicked"
	eventSubmissionScored = "submission_scored"
)

type EventPayload struct {
	GameID        string `json:"game_id,omitempty"`
	JoinCode      string `json:"join_code,omitempty"`
	PlayerName    string `json:"player,omitempty"`
	PlayerID      int    `json:"player_id,omitempty"`
	QuestionIndex *int   `json:"question_index,omitempty"`
	Status        string `json:"status,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	Score         *int   `json:"score,omitempty"`
	StreakBonus   int    `json:"streak_bonus,omitempty"`
	Seconds       int    `json:"seconds,omitempty"`
	Count         int    `json:"count,omitempty"`
}

func intPtr(value int) *int {
	return &value
}
