package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"regex-game/internal/config"

	"github.com/gin-gonic/gin"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Server, *fakeClock) {
	t.Helper()
	srv := New(nil, config.Default())
	clock := newFakeClock()
	srv.now = clock.Now
	return srv, clock
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// setupGame creates a game holding inputs and returns it with its host token.
func setupGame(t *testing.T, srv *Server, inputs ...QuestionInput) CreatedGame {
	t.Helper()
	created, err := srv.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if len(inputs) > 0 {
		if _, err := srv.LoadQuestions(created.GameID, created.HostToken, inputs); err != nil {
			t.Fatalf("load questions: %v", err)
		}
	}
	return created
}

func startedGame(t *testing.T, srv *Server, inputs ...QuestionInput) CreatedGame {
	t.Helper()
	created := setupGame(t, srv, inputs...)
	if err := srv.StartGame(created.GameID, created.HostToken); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return created
}

func join(t *testing.T, srv *Server, created CreatedGame, name, uid string) int {
	t.Helper()
	joined, err := srv.JoinGame(created.JoinCode, name, uid)
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	return joined.PlayerID
}

func question(target, reference string, seconds int) QuestionInput {
	return QuestionInput{TargetString: target, ReferencePattern: reference, TimeSeconds: seconds}
}

func mustSubmit(t *testing.T, srv *Server, gameID string, playerID int, pattern string) SubmitResult {
	t.Helper()
	result, err := srv.SubmitAnswer(gameID, playerID, pattern)
	if err != nil {
		t.Fatalf("submit %q: %v", pattern, err)
	}
	return result
}

func playerByID(t *testing.T, srv *Server, gameID string, playerID int) Player {
	t.Helper()
	game, ok := srv.store.GetGame(gameID)
	if !ok {
		t.Fatalf("game %s not found", gameID)
	}
	player, _ := findPlayer(game, playerID)
	if player == nil {
		t.Fatalf("player %d not found", playerID)
	}
	return *player
}
