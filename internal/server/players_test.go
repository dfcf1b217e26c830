package server

import (
	"errors"
	"strings"
	"testing"
)

func TestJoinResumesByUID(t *testing.T) {
	srv, _ := newTestService(t)
	created := startedGame(t, srv, question("AAA", "A", 30))
	first, err := srv.JoinGame(created.JoinCode, "Ada", "uid-ada")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if first.Resumed {
		t.Fatalf("expected a fresh player")
	}
	mustSubmit(t, srv, created.GameID, first.PlayerID, "A")

	again, err := srv.JoinGame(strings.ToLower(created.JoinCode), "  Ada   Lovelace ", "uid-ada")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if !again.Resumed || again.PlayerID != first.PlayerID {
		t.Fatalf("expected resume of player %d, got %#v", first.PlayerID, again)
	}
	player := playerByID(t, srv, created.GameID, first.PlayerID)
	if player.Name != "Ada Lovelace" {
		t.Fatalf("expected renamed player, got %q", player.Name)
	}
	if player.TotalScore != 100 || player.StreakCount != 1 {
		t.Fatalf("expected score and streak kept, got %d/%d", player.TotalScore, player.StreakCount)
	}
}

func TestJoinNewPlayerDefaults(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	id := join(t, srv, created, "Ada", "uid-ada")
	player := playerByID(t, srv, created.GameID, id)
	if player.TotalScore != 0 || player.StreakCount != 0 || player.LastFullScoreQuestionIndex != -1 {
		t.Fatalf("unexpected defaults %#v", player)
	}
}

func TestJoinValidation(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	missing := "ZZZZZ2"
	if created.JoinCode == missing {
		missing = "ZZZZZ3"
	}
	if _, err := srv.JoinGame(missing, "Ada", "uid-ada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := srv.JoinGame(created.JoinCode, "   ", "uid-ada"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected blank name to fail, got %v", err)
	}
	if _, err := srv.JoinGame(created.JoinCode, "Ada", "bad uid!"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected bad uid to fail, got %v", err)
	}
}

func TestJoinFinishedGame(t *testing.T) {
	srv, _ := newTestService(t)
	created := setupGame(t, srv)
	id := join(t, srv, created, "Ada", "uid-ada")
	if err := srv.EndGame(created.GameID, created.HostToken); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := srv.JoinGame(created.JoinCode, "Bob", "uid-bob"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected new player to be refused, got %v", err)
	}
	resumed, err := srv.JoinGame(created.JoinCode, "Ada", "uid-ada")
	if err != nil || resumed.PlayerID != id {
		t.Fatalf("expected existing player to resume, got %#v %v", resumed, err)
	}
}

func TestKickCascadesAndFreesUID(t *testing.T) {
	srv, _ := newTestService(t)
	created := startedGame(t, srv, question("AAA", "A", 30))
	ada := join(t, srv, created, "Ada", "uid-ada")
	bob := join(t, srv, created, "Bob", "uid-bob")
	mustSubmit(t, srv, created.GameID, ada, "A")
	mustSubmit(t, srv, created.GameID, bob, "A")

	if err := srv.KickPlayer(created.GameID, "wrong", ada); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := srv.KickPlayer(created.GameID, created.HostToken, ada); err != nil {
		t.Fatalf("kick: %v", err)
	}
	if err := srv.KickPlayer(created.GameID, created.HostToken, ada); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second kick to be not found, got %v", err)
	}

	game, _ := srv.store.GetGame(created.GameID)
	for _, submission := range game.Submissions {
		if submission.PlayerID == ada {
			t.Fatalf("expected kicked player's submissions removed")
		}
	}
	if len(game.Submissions) != 1 {
		t.Fatalf("expected other submissions kept, got %d", len(game.Submissions))
	}

	state, _ := srv.GetState(created.GameID, ada, "")
	if state.CallerStatus != callerKicked {
		t.Fatalf("expected kicked caller status, got %s", state.CallerStatus)
	}
	if _, err := srv.SubmitAnswer(created.GameID, ada, "A"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected kicked player submit to fail, got %v", err)
	}

	rejoined := join(t, srv, created, "Ada", "uid-ada")
	if rejoined == ada {
		t.Fatalf("expected a new player id after kick")
	}
	if player := playerByID(t, srv, created.GameID, rejoined); player.TotalScore != 0 {
		t.Fatalf("expected fresh score, got %d", player.TotalScore)
	}
	if res := mustSubmit(t, srv, created.GameID, rejoined, "A"); !res.Accepted {
		t.Fatalf("expected rejoined player to submit, got %#v", res)
	}
}
