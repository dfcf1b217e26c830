package server

import (
	"path/filepath"
	"testing"

	"regex-game/internal/config"
	"regex-game/internal/db"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite:" + filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Skipf("skipping test; sqlite unavailable: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Skipf("skipping test; sqlite migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestPersistAndRestoreGame(t *testing.T) {
	conn := openTestDB(t)
	clock := newFakeClock()
	srv := New(conn, config.Default())
	srv.now = clock.Now

	created := startedGame(t, srv, question("AAA", "A", 600), question("abc", "c", 600))
	ada := join(t, srv, created, "Ada", "uid-ada")
	bob := join(t, srv, created, "Bob", "uid-bob")
	if res := mustSubmit(t, srv, created.GameID, ada, "A"); !res.Accepted {
		t.Fatalf("expected accepted submission, got %#v", res)
	}
	mustSubmit(t, srv, created.GameID, bob, "A")
	if err := srv.KickPlayer(created.GameID, created.HostToken, bob); err != nil {
		t.Fatalf("kick: %v", err)
	}

	var submissions int64
	if err := conn.Model(&db.Submission{}).Count(&submissions).Error; err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if submissions != 1 {
		t.Fatalf("expected kicked player's submission deleted, got %d rows", submissions)
	}

	restored := New(conn, config.Default())
	restored.now = clock.Now
	count, err := restored.RestoreGames()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 restored game, got %d", count)
	}

	state, err := restored.GetState(created.GameID, ada, created.HostToken)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !state.IsHost || state.Game.Status != statusActive || state.TotalQuestions != 2 {
		t.Fatalf("unexpected restored state %#v", state.Game)
	}
	if len(state.Leaderboard) != 1 || state.Leaderboard[0].TotalScore != 100 {
		t.Fatalf("unexpected restored leaderboard %#v", state.Leaderboard)
	}
	if again := mustSubmit(t, restored, created.GameID, ada, "A"); again.Accepted {
		t.Fatalf("expected restored ledger to decline repeat")
	}
	if kicked, _ := restored.GetState(created.GameID, bob, ""); kicked.CallerStatus != callerKicked {
		t.Fatalf("expected kicked status after restore, got %s", kicked.CallerStatus)
	}

	if err := restored.AdvanceQuestion(created.GameID, created.HostToken); err != nil {
		t.Fatalf("advance: %v", err)
	}
	var record db.Game
	if err := conn.First(&record, "join_code = ?", created.JoinCode).Error; err != nil {
		t.Fatalf("load game: %v", err)
	}
	if record.CurrentQuestionIndex != 1 {
		t.Fatalf("expected persisted index 1, got %d", record.CurrentQuestionIndex)
	}
	var events int64
	conn.Model(&db.Event{}).Where("game_id = ?", record.ID).Count(&events)
	if events == 0 {
		t.Fatalf("expected events to be recorded")
	}
}

func TestPersistRejectsDuplicateSubmissionRow(t *testing.T) {
	conn := openTestDB(t)
	srv := New(conn, config.Default())
	created := startedGame(t, srv, question("AAA", "A", 600))
	ada := join(t, srv, created, "Ada", "uid-ada")
	mustSubmit(t, srv, created.GameID, ada, "A")

	// Drop the in-memory record so only the unique index guards the row.
	if err := srv.store.UpdateGame(created.GameID, func(game *Game) error {
		game.Submissions = nil
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	res := mustSubmit(t, srv, created.GameID, ada, "A")
	if res.Accepted || res.Reason != reasonAlreadySubmitted {
		t.Fatalf("expected unique index to decline, got %#v", res)
	}
	if got := playerByID(t, srv, created.GameID, ada).TotalScore; got != 100 {
		t.Fatalf("expected total kept at 100, got %d", got)
	}
}
