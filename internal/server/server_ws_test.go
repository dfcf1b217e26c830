package server

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"regex-game/internal/config"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type  string    `json:"type"`
	State GameState `json:"state"`
	HTML  string    `json:"html"`
}

func readWSMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var msg wsMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode websocket message: %v", err)
	}
	return msg
}

func TestWebsocketUnknownGame(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/game-404"
	if conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		_ = conn.Close()
		t.Fatalf("expected dial to unknown game to fail")
	}
}

func TestWebsocketPushesStateOnChange(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID, joinCode, hostToken := createGame(t, ts)
	playerID := joinPlayer(t, ts, joinCode, "Ada", "uid-ada")
	base := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + gameID

	playerConn, _, err := websocket.DefaultDialer.Dial(base+"?player_id="+strconv.Itoa(playerID), nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	defer playerConn.Close()
	hostConn, _, err := websocket.DefaultDialer.Dial(base+"?host_token="+hostToken, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	defer hostConn.Close()

	first := readWSMessage(t, playerConn, 5*time.Second)
	if first.Type != "state" || first.State.CallerStatus != callerOK {
		t.Fatalf("expected player state, got %#v", first)
	}
	if hostFirst := readWSMessage(t, hostConn, 5*time.Second); !hostFirst.State.IsHost {
		t.Fatalf("expected host state")
	}

	loadQuestionsHTTP(t, ts, gameID, hostToken, []QuestionInput{question("abc", "b", 30)})
	if msg := readWSMessage(t, playerConn, 5*time.Second); msg.State.TotalQuestions != 1 {
		t.Fatalf("expected question count broadcast, got %d", msg.State.TotalQuestions)
	}
	readWSMessage(t, hostConn, 5*time.Second)

	hostPost(t, ts, gameID, "start", hostToken)
	msg := readWSMessage(t, playerConn, 5*time.Second)
	if msg.State.CurrentQuestion == nil || msg.State.CurrentQuestion.ReferencePattern != "" {
		t.Fatalf("expected player question without answer, got %#v", msg.State.CurrentQuestion)
	}
	if hostState := readWSMessage(t, hostConn, 5*time.Second); hostState.State.CurrentQuestion.ReferencePattern != "b" {
		t.Fatalf("expected host to receive answer")
	}
	if html := readWSMessage(t, hostConn, 5*time.Second); html.Type != "html" || !strings.Contains(html.HTML, "hl-reference") {
		t.Fatalf("expected host fragment, got %#v", html)
	}
}
