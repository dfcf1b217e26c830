package server

import "regex-game/internal/match"

// GetState builds the view of the game seen by the caller. playerID may be
// zero and hostToken empty for anonymous viewers.
func (s *Server) GetState(gameID string, playerID int, hostToken string) (GameState, error) {
	var state GameState
	var question *Question
	err := s.store.ViewGame(gameID, func(game *Game) error {
		now := s.now()
		board := buildLeaderboard(game.Players)
		state = GameState{
			Game:           summarize(game),
			Leaderboard:    board,
			CallerStatus:   callerStatus(game, playerID),
			IsHost:         isHost(game, hostToken),
			TotalQuestions: len(game.Questions),
		}
		if rank, ok := rankOf(board, playerID); ok {
			state.CallerRank = &rank
			state.AroundPlayer = aroundPlayer(board, playerID)
		}
		if game.Status != statusActive {
			return nil
		}
		if current := currentQuestion(game); current != nil {
			copied := *current
			question = &copied
			state.QuestionOpen = questionOpen(game, current, now)
			remaining := remainingSeconds(game, current, now)
			state.RemainingSeconds = &remaining
		}
		return nil
	})
	if err != nil {
		return GameState{}, err
	}
	if question != nil {
		state.CurrentQuestion = s.questionView(question, state.IsHost)
	}
	return state, nil
}

func (s *Server) questionView(question *Question, withAnswer bool) *QuestionView {
	ranges := question.Reference.Ranges
	if ranges == nil {
		ranges = []match.Range{}
	}
	view := &QuestionView{
		Index:           question.Index,
		TargetString:    question.TargetString,
		TimeSeconds:     question.TimeSeconds,
		Prompt:          question.Prompt,
		HighlightRanges: ranges,
	}
	if withAnswer {
		view.ReferencePattern = question.ReferencePattern
	}
	return view
}
