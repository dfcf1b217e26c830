package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"regex-game/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wsViewer struct {
	playerID  int
	hostToken string
}

type wsClient struct {
	conn   *websocket.Conn
	viewer wsViewer
	mu     sync.Mutex
}

func (c *wsClient) write(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*wsClient]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*wsClient]struct{}),
	}
}

func (h *wsHub) Add(gameID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[gameID] = group
	}
	group[client] = struct{}{}
}

func (h *wsHub) Remove(gameID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, client)
	_ = client.conn.Close()
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) clients(gameID string) []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	clients := make([]*wsClient, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	return clients
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	gameID := c.Param("id")
	if _, exists := s.store.GetGame(gameID); !exists {
		c.Status(http.StatusNotFound)
		return
	}
	playerID, _ := strconv.Atoi(c.Query("player_id"))
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		conn:   conn,
		viewer: wsViewer{playerID: playerID, hostToken: c.Query("host_token")},
	}
	log.Printf("ws connected game_id=%s remote=%s", gameID, c.Request.RemoteAddr)
	s.ws.Add(gameID, client)
	if err := s.pushState(gameID, client); err != nil {
		s.ws.Remove(gameID, client)
		return
	}
	go s.readWS(gameID, client)
}

func (s *Server) readWS(gameID string, client *wsClient) {
	defer s.ws.Remove(gameID, client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%s error=%v", gameID, err)
			return
		}
	}
}

// pushState sends the viewer's state and, to the host, the rendered
// question fragment.
func (s *Server) pushState(gameID string, client *wsClient) error {
	state, err := s.GetState(gameID, client.viewer.playerID, client.viewer.hostToken)
	if err != nil {
		return err
	}
	if err := client.write(map[string]any{"type": "state", "state": state}); err != nil {
		return err
	}
	if !state.IsHost || state.CurrentQuestion == nil {
		return nil
	}
	html, err := renderQuestionFragment(state)
	if err != nil {
		return err
	}
	return client.write(map[string]any{"type": "html", "html": html})
}

func (s *Server) broadcastGame(gameID string) {
	if s.ws == nil {
		return
	}
	for _, client := range s.ws.clients(gameID) {
		if err := s.pushState(gameID, client); err != nil {
			s.ws.Remove(gameID, client)
		}
	}
}

func renderQuestionFragment(state GameState) (string, error) {
	question := state.CurrentQuestion
	var buf bytes.Buffer
	fragment := web.QuestionFragment(question.Index, state.TotalQuestions, question.Prompt, question.TargetString, question.HighlightRanges, question.ReferencePattern)
	if err := fragment.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
