package server

import (
	"net/http"

	"regex-game/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home()).ServeHTTP(c.Writer, c.Request)
}

// handleQuestionHTML renders the current question with its highlights. The
// reference pattern is included only for the host.
func (s *Server) handleQuestionHTML(c *gin.Context) {
	var query stateQuery
	if !bindQuery(c, &query) {
		return
	}
	state, err := s.GetState(c.Param("id"), query.PlayerID, query.HostToken)
	if err != nil {
		writeGameError(c, err)
		return
	}
	if state.CurrentQuestion == nil {
		writeGameError(c, errQuestionNotFound)
		return
	}
	html, err := renderQuestionFragment(state)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// handleQRCode encodes the join link for the game as a PNG.
func (s *Server) handleQRCode(c *gin.Context) {
	game, ok := s.store.GetGame(c.Param("id"))
	if !ok {
		writeGameError(c, errGameNotFound)
		return
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + c.Request.Host + "/join/" + game.JoinCode
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
