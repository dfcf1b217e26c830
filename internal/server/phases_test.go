package server

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStartRequiresQuestions(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	err := srv.StartGame(created.GameID, created.HostToken)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestHostActionsCheckGameThenToken(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv, question("abc", "b", 30))

	if err := srv.StartGame("game-404", created.HostToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := srv.StartGame(created.GameID, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := srv.StartGame(created.GameID, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	game, _ := srv.store.GetGame(created.GameID)
	if game.Status != statusSetup {
		t.Fatalf("expected failed calls to leave status setup, got %s", game.Status)
	}
}

func TestStartOpensFirstQuestion(t *testing.T) {
	srv, clock := newTestService(t)
	created := startedGame(t, srv, question("abc", "b", 30), question("xyz", "y", 20))

	game, _ := srv.store.GetGame(created.GameID)
	if game.Status != statusActive || game.CurrentQuestionIndex != 0 {
		t.Fatalf("expected active at question 0, got %s/%d", game.Status, game.CurrentQuestionIndex)
	}
	if !game.QuestionStartedAt.Equal(clock.Now()) {
		t.Fatalf("expected start time %s, got %s", clock.Now(), game.QuestionStartedAt)
	}
	if err := srv.StartGame(created.GameID, created.HostToken); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected second start to fail, got %v", err)
	}
}

func TestLoadQuestionsOnlyDuringSetup(t *testing.T) {
	srv, _ := newTestService(t)
	created := startedGame(t, srv, question("abc", "b", 30))
	_, err := srv.LoadQuestions(created.GameID, created.HostToken, []QuestionInput{question("x", "x", 5)})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestLoadQuestionsReplacesSet(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv, question("abc", "b", 30), question("abc", "c", 30))
	count, err := srv.LoadQuestions(created.GameID, created.HostToken, []QuestionInput{question("hello", "l+", 15)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 question, got %d", count)
	}
	game, _ := srv.store.GetGame(created.GameID)
	if len(game.Questions) != 1 || game.Questions[0].TargetString != "hello" {
		t.Fatalf("expected replaced question set, got %#v", game.Questions)
	}
	if game.Questions[0].Prompt != defaultPrompt {
		t.Fatalf("expected default prompt, got %q", game.Questions[0].Prompt)
	}
}

func TestLoadQuestionsValidatesInput(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	cases := map[string][]QuestionInput{
		"empty list":     nil,
		"empty target":   {question("", "a", 10)},
		"empty pattern":  {question("abc", "  ", 10)},
		"zero seconds":   {question("abc", "a", 0)},
		"too many secs":  {question("abc", "a", srv.cfg.MaxQuestionSeconds+1)},
		"pattern length": {question("abc", strings.Repeat("a", srv.cfg.MaxPatternLength+1), 10)},
	}
	for name, inputs := range cases {
		if _, err := srv.LoadQuestions(created.GameID, created.HostToken, inputs); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestAdvanceFinishesAfterLastQuestion(t *testing.T) {
	srv, clock := newTestService(t)
	created := startedGame(t, srv, question("abc", "a", 30), question("abc", "b", 30))

	clock.Advance(40 * time.Second)
	if err := srv.AdvanceQuestion(created.GameID, created.HostToken); err != nil {
		t.Fatalf("advance: %v", err)
	}
	game, _ := srv.store.GetGame(created.GameID)
	if game.Status != statusActive || game.CurrentQuestionIndex != 1 {
		t.Fatalf("expected active at question 1, got %s/%d", game.Status, game.CurrentQuestionIndex)
	}
	if !game.QuestionStartedAt.Equal(clock.Now()) {
		t.Fatalf("expected timer reset on advance")
	}

	if err := srv.AdvanceQuestion(created.GameID, created.HostToken); err != nil {
		t.Fatalf("advance: %v", err)
	}
	game, _ = srv.store.GetGame(created.GameID)
	if game.Status != statusFinished || game.CurrentQuestionIndex != 2 {
		t.Fatalf("expected finished past last question, got %s/%d", game.Status, game.CurrentQuestionIndex)
	}
	if err := srv.AdvanceQuestion(created.GameID, created.HostToken); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state after finish, got %v", err)
	}
}

func TestExtendAfterDeadlineGivesFullDelta(t *testing.T) {
	srv, clock := newTestService(t)
	created := startedGame(t, srv, question("abc", "a", 30))

	clock.Advance(45 * time.Second)
	if err := srv.ExtendQuestion(created.GameID, created.HostToken, 10); err != nil {
		t.Fatalf("extend: %v", err)
	}
	state, err := srv.GetState(created.GameID, 0, "")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.RemainingSeconds == nil || *state.RemainingSeconds != 10 {
		t.Fatalf("expected 10 remaining, got %v", state.RemainingSeconds)
	}
	if !state.QuestionOpen {
		t.Fatalf("expected question reopened")
	}
}

func TestExtendBeforeDeadlineAddsToRemaining(t *testing.T) {
	srv, clock := newTestService(t)
	created := startedGame(t, srv, question("abc", "a", 30))

	clock.Advance(5 * time.Second)
	if err := srv.ExtendQuestion(created.GameID, created.HostToken, 10); err != nil {
		t.Fatalf("extend: %v", err)
	}
	state, _ := srv.GetState(created.GameID, 0, "")
	if *state.RemainingSeconds != 35 {
		t.Fatalf("expected 35 remaining, got %d", *state.RemainingSeconds)
	}
}

func TestExtendRejectsNonPositiveSeconds(t *testing.T) {
	srv, _ := newTestService(t)
	created := startedGame(t, srv, question("abc", "a", 30))
	if err := srv.ExtendQuestion(created.GameID, created.HostToken, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestEndQuestionNowClosesRound(t *testing.T) {
	srv, _ := newTestService(t)
	created := startedGame(t, srv, question("abc", "a", 30), question("abc", "b", 30))
	playerID := join(t, srv, created, "Ada", "uid-ada")

	if err := srv.EndQuestionNow(created.GameID, created.HostToken); err != nil {
		t.Fatalf("end question: %v", err)
	}
	state, _ := srv.GetState(created.GameID, playerID, "")
	if state.QuestionOpen || *state.RemainingSeconds != 0 {
		t.Fatalf("expected closed round, got open=%v remaining=%d", state.QuestionOpen, *state.RemainingSeconds)
	}
	if state.Game.Status != statusActive || state.Game.CurrentQuestionIndex != 0 {
		t.Fatalf("expected index and status unchanged, got %s/%d", state.Game.Status, state.Game.CurrentQuestionIndex)
	}
	result := mustSubmit(t, srv, created.GameID, playerID, "a")
	if result.Accepted || result.Reason != reasonTimeUp {
		t.Fatalf("expected time up, got %#v", result)
	}
}

func TestEndGameFromSetupAndActive(t *testing.T) {
	srv, _ := newTestService(t)
	setup := setupGame(t, srv)
	if err := srv.EndGame(setup.GameID, setup.HostToken); err != nil {
		t.Fatalf("end from setup: %v", err)
	}
	active := startedGame(t, srv, question("abc", "a", 30))
	if err := srv.EndGame(active.GameID, active.HostToken); err != nil {
		t.Fatalf("end from active: %v", err)
	}
	if err := srv.EndGame(active.GameID, active.HostToken); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected second end to fail, got %v", err)
	}
	if err := srv.StartGame(setup.GameID, setup.HostToken); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected finished game not to restart, got %v", err)
	}
}

func TestResumeHost(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	resumed, err := srv.ResumeHost(created.JoinCode, created.HostToken)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.GameID != created.GameID {
		t.Fatalf("expected %s, got %s", created.GameID, resumed.GameID)
	}
	if _, err := srv.ResumeHost(created.JoinCode, "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := srv.ResumeHost("ZZZZZZ", created.HostToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
