package server

import (
	"log"
	"strings"
	"time"
)

type sessionAction string

const (
	actionLoadQuestions sessionAction = "load_questions"
	actionStart         sessionAction = "start"
	actionAdvance       sessionAction = "advance"
	actionExtend        sessionAction = "extend"
	actionEndQuestion   sessionAction = "end_question"
	actionFinish        sessionAction = "finish"
)

type phaseTransition struct {
	from     []string
	rejected error
}

var phaseTransitions = map[sessionAction]phaseTransition{
	actionLoadQuestions: {from: []string{statusSetup}, rejected: errNotSetup},
	actionStart:         {from: []string{statusSetup}, rejected: invalidState("game already started")},
	actionAdvance:       {from: []string{statusActive}, rejected: errNotActive},
	actionExtend:        {from: []string{statusActive}, rejected: errNotActive},
	actionEndQuestion:   {from: []string{statusActive}, rejected: errNotActive},
	actionFinish:        {from: []string{statusSetup, statusActive}, rejected: errAlreadyFinished},
}

func checkTransition(game *Game, action sessionAction) error {
	transition, ok := phaseTransitions[action]
	if !ok {
		return invalidState("unknown action")
	}
	for _, status := range transition.from {
		if game.Status == status {
			return nil
		}
	}
	return transition.rejected
}

// hostTransition authorizes the host and checks that action is legal before
// handing the game to apply.
func (s *Server) hostTransition(gameID, hostToken string, action sessionAction, apply func(game *Game, now time.Time) error) error {
	err := s.store.UpdateGame(gameID, func(game *Game) error {
		if err := authorizeHost(game, hostToken); err != nil {
			return err
		}
		if err := checkTransition(game, action); err != nil {
			return err
		}
		return apply(game, s.now())
	})
	if err != nil {
		return err
	}
	s.broadcastGame(gameID)
	return nil
}

// commitGameState persists next and then installs it as the game.
func (s *Server) commitGameState(game *Game, next Game, eventType string, payload EventPayload) error {
	if err := s.persistGameState(&next, eventType, payload); err != nil {
		return err
	}
	*game = next
	return nil
}

func (s *Server) CreateGame() (CreatedGame, error) {
	game, err := s.store.CreateGame(newHostToken(), s.now(), s.persistNewGame)
	if err != nil {
		return CreatedGame{}, err
	}
	log.Printf("game created game_id=%s join_code=%s", game.ID, game.JoinCode)
	return CreatedGame{GameID: game.ID, JoinCode: game.JoinCode, HostToken: game.HostToken}, nil
}

// ResumeHost confirms a stored host token still controls the game behind
// joinCode.
func (s *Server) ResumeHost(joinCode, hostToken string) (CreatedGame, error) {
	gameID, ok := s.store.FindGameByJoinCode(joinCode)
	if !ok {
		return CreatedGame{}, errGameNotFound
	}
	var resumed CreatedGame
	err := s.store.ViewGame(gameID, func(game *Game) error {
		if err := authorizeHost(game, hostToken); err != nil {
			return err
		}
		resumed = CreatedGame{GameID: game.ID, JoinCode: game.JoinCode, HostToken: game.HostToken}
		return nil
	})
	return resumed, err
}

func (s *Server) LoadQuestions(gameID, hostToken string, inputs []QuestionInput) (int, error) {
	questions, err := s.buildQuestions(gameID, inputs)
	if err != nil {
		return 0, err
	}
	err = s.hostTransition(gameID, hostToken, actionLoadQuestions, func(game *Game, now time.Time) error {
		if err := s.persistQuestions(game, questions); err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = s.store.newQuestionID(questions[i].DBID)
		}
		game.Questions = questions
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("questions loaded game_id=%s count=%d", gameID, len(questions))
	return len(questions), nil
}

func (s *Server) buildQuestions(gameID string, inputs []QuestionInput) ([]Question, error) {
	if len(inputs) == 0 {
		return nil, invalidInput("at least one question is required")
	}
	if len(inputs) > s.cfg.MaxQuestions {
		return nil, invalidInput("too many questions")
	}
	questions := make([]Question, 0, len(inputs))
	for i, input := range inputs {
		target := input.TargetString
		if target == "" {
			return nil, invalidInput("target_string is required")
		}
		if len([]rune(target)) > s.cfg.MaxTargetLength {
			return nil, invalidInput("target_string is too long")
		}
		pattern := input.ReferencePattern
		if strings.TrimSpace(pattern) == "" {
			return nil, invalidInput("reference_pattern is required")
		}
		if len([]rune(pattern)) > s.cfg.MaxPatternLength {
			return nil, invalidInput("reference_pattern is too long")
		}
		if input.TimeSeconds <= 0 || input.TimeSeconds > s.cfg.MaxQuestionSeconds {
			return nil, invalidInput("time_seconds is out of range")
		}
		prompt := strings.TrimSpace(input.Prompt)
		if prompt == "" {
			prompt = defaultPrompt
		}
		question := Question{
			Index:            i,
			TargetString:     target,
			ReferencePattern: pattern,
			TimeSeconds:      input.TimeSeconds,
			Prompt:           prompt,
		}
		s.evaluateReference(gameID, &question)
		questions = append(questions, question)
	}
	return questions, nil
}

func (s *Server) StartGame(gameID, hostToken string) error {
	err := s.hostTransition(gameID, hostToken, actionStart, func(game *Game, now time.Time) error {
		if len(game.Questions) == 0 {
			return errNoQuestions
		}
		next := *game
		next.Status = statusActive
		next.CurrentQuestionIndex = 0
		next.QuestionStartedAt = now
		return s.commitGameState(game, next, eventGameStarted, EventPayload{
			QuestionIndex: intPtr(0),
			Status:        statusActive,
		})
	})
	if err == nil {
		log.Printf("game started game_id=%s", gameID)
	}
	return err
}

func (s *Server) AdvanceQuestion(gameID, hostToken string) error {
	var status string
	var index int
	err := s.hostTransition(gameID, hostToken, actionAdvance, func(game *Game, now time.Time) error {
		next := *game
		next.CurrentQuestionIndex++
		eventType := eventQuestionAdvanced
		if next.CurrentQuestionIndex < len(game.Questions) {
			next.QuestionStartedAt = now
		} else {
			next.Status = statusFinished
			eventType = eventGameFinished
		}
		if err := s.commitGameState(game, next, eventType, EventPayload{
			QuestionIndex: intPtr(next.CurrentQuestionIndex),
			Status:        next.Status,
		}); err != nil {
			return err
		}
		status, index = next.Status, next.CurrentQuestionIndex
		return nil
	})
	if err == nil {
		log.Printf("question advanced game_id=%s question_index=%d status=%s", gameID, index, status)
	}
	return err
}

func (s *Server) ExtendQuestion(gameID, hostToken string, seconds int) error {
	if seconds <= 0 {
		return invalidInput("seconds must be positive")
	}
	if seconds > s.cfg.MaxQuestionSeconds {
		return invalidInput("seconds is out of range")
	}
	err := s.hostTransition(gameID, hostToken, actionExtend, func(game *Game, now time.Time) error {
		question := currentQuestion(game)
		if question == nil {
			return errQuestionNotFound
		}
		next := *game
		next.QuestionStartedAt = extendedStart(game, question, now, time.Duration(seconds)*time.Second)
		return s.commitGameState(game, next, eventQuestionExtended, EventPayload{
			QuestionIndex: intPtr(game.CurrentQuestionIndex),
			Seconds:       seconds,
		})
	})
	if err == nil {
		log.Printf("question extended game_id=%s seconds=%d", gameID, seconds)
	}
	return err
}

func (s *Server) EndQuestionNow(gameID, hostToken string) error {
	err := s.hostTransition(gameID, hostToken, actionEndQuestion, func(game *Game, now time.Time) error {
		question := currentQuestion(game)
		if question == nil {
			return errQuestionNotFound
		}
		next := *game
		next.QuestionStartedAt = expiredStart(question, now)
		return s.commitGameState(game, next, eventQuestionEnded, EventPayload{
			QuestionIndex: intPtr(game.CurrentQuestionIndex),
		})
	})
	if err == nil {
		log.Printf("question ended early game_id=%s", gameID)
	}
	return err
}

func (s *Server) EndGame(gameID, hostToken string) error {
	err := s.hostTransition(gameID, hostToken, actionFinish, func(game *Game, now time.Time) error {
		next := *game
		next.Status = statusFinished
		return s.commitGameState(game, next, eventGameFinished, EventPayload{
			Status: statusFinished,
			Reason: "host ended game",
		})
	})
	if err == nil {
		log.Printf("game finished game_id=%s", gameID)
	}
	return err
}
