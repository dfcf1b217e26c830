package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"regex-game/internal/match"
	"regex-game/internal/questions"
	"regex-game/internal/web"

	"github.com/gin-gonic/gin"
)

const maxCSVBytes = 1 << 20

type hostRequest struct {
	HostToken string `json:"host_token" binding:"required"`
}

type resumeRequest struct {
	JoinCode  string `json:"join_code" binding:"required,code"`
	HostToken string `json:"host_token" binding:"required"`
}

type questionsRequest struct {
	HostToken string          `json:"host_token" binding:"required"`
	Questions []QuestionInput `json:"questions" binding:"required"`
}

type extendRequest struct {
	HostToken string `json:"host_token" binding:"required"`
	Seconds   int    `json:"seconds" binding:"required,min=1"`
}

type kickRequest struct {
	HostToken string `json:"host_token" binding:"required"`
	PlayerID  int    `json:"player_id" binding:"required,min=1"`
}

type joinRequest struct {
	JoinCode string `json:"join_code" binding:"required,code"`
	Name     string `json:"name" binding:"required,name"`
	UID      string `json:"uid" binding:"required,uid"`
}

type submitRequest struct {
	PlayerID int    `json:"player_id" binding:"required,min=1"`
	Pattern  string `json:"pattern" binding:"required,pattern"`
}

type previewRequest struct {
	Pattern          string `json:"pattern" binding:"required,pattern"`
	Target           string `json:"target" binding:"required"`
	ReferencePattern string `json:"reference_pattern"`
}

type stateQuery struct {
	PlayerID  int    `form:"player_id"`
	HostToken string `form:"host_token"`
}

type previewResponse struct {
	Ranges          []match.Range `json:"ranges"`
	Error           string        `json:"error,omitempty"`
	ReferenceRanges []match.Range `json:"reference_ranges,omitempty"`
	Score           *int          `json:"score,omitempty"`
	FullScore       *bool         `json:"full_score,omitempty"`
	HTML            string        `json:"html"`
}

var joinMessages = bindMessages{
	"JoinCode": {"required": "join code is required", "code": "join code is not valid"},
	"Name":     {"required": "name is required", "name": "name must be 1-24 printable characters"},
	"UID":      {"required": "uid is required", "uid": "uid is not valid"},
}

var submitMessages = bindMessages{
	"PlayerID": {"required": "player_id is required", "min": "player_id is required"},
	"Pattern":  {"required": "pattern is required", "pattern": "pattern is required and must be short"},
}

func (s *Server) handleCreateGame(c *gin.Context) {
	created, err := s.CreateGame()
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

func (s *Server) handleResumeHost(c *gin.Context) {
	var req resumeRequest
	if !bindJSON(c, &req, bindMessages{"HostToken": hostTokenMessages}, "invalid resume request") {
		return
	}
	resumed, err := s.ResumeHost(req.JoinCode, req.HostToken)
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resumed)
}

func (s *Server) handleLoadQuestions(c *gin.Context) {
	var req questionsRequest
	if !bindJSON(c, &req, bindMessages{"HostToken": hostTokenMessages}, "invalid questions request") {
		return
	}
	s.loadQuestions(c, req.HostToken, req.Questions)
}

// handleLoadQuestionsCSV accepts either a multipart upload in field "file"
// or a raw CSV body. The host token comes from X-Host-Token or the form.
func (s *Server) handleLoadQuestionsCSV(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "csv upload is required")
		return
	}
	defer body.Close()
	hostToken := hostTokenFrom(c)
	if hostToken == "" {
		writeError(c, http.StatusBadRequest, hostTokenMessages["required"])
		return
	}
	entries, err := questions.ParseCSV(io.LimitReader(body, maxCSVBytes))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	inputs := make([]QuestionInput, len(entries))
	for i, entry := range entries {
		inputs[i] = QuestionInput{
			TargetString:     entry.TargetString,
			ReferencePattern: entry.ReferencePattern,
			TimeSeconds:      entry.TimeSeconds,
			Prompt:           entry.Prompt,
		}
	}
	s.loadQuestions(c, hostToken, inputs)
}

func csvBody(c *gin.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		return header.Open()
	}
	if c.Request.Body == nil {
		return nil, errors.New("empty body")
	}
	return c.Request.Body, nil
}

func (s *Server) loadQuestions(c *gin.Context, hostToken string, inputs []QuestionInput) {
	count, err := s.LoadQuestions(c.Param("id"), hostToken, inputs)
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"count": count})
}

func (s *Server) handleStart(c *gin.Context) {
	s.hostAction(c, s.StartGame)
}

func (s *Server) handleAdvance(c *gin.Context) {
	s.hostAction(c, s.AdvanceQuestion)
}

func (s *Server) handleEndQuestion(c *gin.Context) {
	s.hostAction(c, s.EndQuestionNow)
}

func (s *Server) handleEndGame(c *gin.Context) {
	s.hostAction(c, s.EndGame)
}

func (s *Server) hostAction(c *gin.Context, action func(gameID, hostToken string) error) {
	var req hostRequest
	if !bindJSON(c, &req, bindMessages{"HostToken": hostTokenMessages}, "") {
		return
	}
	gameID := c.Param("id")
	if err := action(gameID, req.HostToken); err != nil {
		writeGameError(c, err)
		return
	}
	s.writeState(c, gameID, 0, req.HostToken)
}

func (s *Server) handleExtend(c *gin.Context) {
	var req extendRequest
	if !bindJSON(c, &req, bindMessages{
		"HostToken": hostTokenMessages,
		"Seconds":   {"required": "seconds must be positive", "min": "seconds must be positive"},
	}, "") {
		return
	}
	gameID := c.Param("id")
	if err := s.ExtendQuestion(gameID, req.HostToken, req.Seconds); err != nil {
		writeGameError(c, err)
		return
	}
	s.writeState(c, gameID, 0, req.HostToken)
}

func (s *Server) handleKick(c *gin.Context) {
	var req kickRequest
	if !bindJSON(c, &req, bindMessages{
		"HostToken": hostTokenMessages,
		"PlayerID":  {"required": "player_id is required", "min": "player_id is required"},
	}, "") {
		return
	}
	if err := s.KickPlayer(c.Param("id"), req.HostToken, req.PlayerID); err != nil {
		writeGameError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleJoin(c *gin.Context) {
	var req joinRequest
	if !bindJSON(c, &req, joinMessages, "invalid join request") {
		return
	}
	joined, err := s.JoinGame(req.JoinCode, req.Name, req.UID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	status := http.StatusCreated
	if joined.Resumed {
		status = http.StatusOK
	}
	writeJSON(c, status, joined)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if !bindJSON(c, &req, submitMessages, "invalid submission") {
		return
	}
	result, err := s.SubmitAnswer(c.Param("id"), req.PlayerID, req.Pattern)
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

func (s *Server) handleState(c *gin.Context) {
	var query stateQuery
	if !bindQuery(c, &query) {
		return
	}
	s.writeState(c, c.Param("id"), query.PlayerID, query.HostToken)
}

func (s *Server) writeState(c *gin.Context, gameID string, playerID int, hostToken string) {
	state, err := s.GetState(gameID, playerID, hostToken)
	if err != nil {
		writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, state)
}

func (s *Server) handlePreview(c *gin.Context) {
	var req previewRequest
	if !bindJSON(c, &req, submitMessages, "invalid preview request") {
		return
	}
	result, err := s.Preview(req.Pattern, req.Target, req.ReferencePattern)
	if err != nil {
		writeGameError(c, err)
		return
	}
	resp := previewResponse{Ranges: result.Candidate.Ranges}
	if !result.Candidate.OK() {
		resp.Error = result.Candidate.Err.Error()
	}
	var referenceRanges []match.Range
	if result.Reference != nil {
		referenceRanges = result.Reference.Ranges
		resp.ReferenceRanges = referenceRanges
		resp.Score = &result.Score.Score
		resp.FullScore = &result.Score.FullScore
	}
	var html strings.Builder
	fragment := web.HighlightedText(req.Target, result.Candidate.Ranges, web.ClassCandidate, referenceRanges, web.ClassReference)
	if err := fragment.Render(c.Request.Context(), &html); err != nil {
		writeGameError(c, err)
		return
	}
	resp.HTML = html.String()
	writeJSON(c, http.StatusOK, resp)
}
