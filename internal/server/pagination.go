package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultGamesPerPage = 20
	maxGamesPerPage     = 100
)

type gamesPage struct {
	Games      []GameSummary `json:"games"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func parsePagination(c *gin.Context, defaultPerPage, maxPerPage int) (int, int) {
	page := 1
	perPage := defaultPerPage
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			page = value
		}
	}
	if raw := strings.TrimSpace(c.Query("per_page")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			perPage = value
		}
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// paginateGames clamps page into range and slices out that page.
func paginateGames(games []GameSummary, page, perPage int) gamesPage {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(games)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page <= 0 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := min(total, (page-1)*perPage)
	end := min(total, start+perPage)
	return gamesPage{
		Games:      append([]GameSummary{}, games[start:end]...),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func (s *Server) handleListGames(c *gin.Context) {
	page, perPage := parsePagination(c, defaultGamesPerPage, maxGamesPerPage)
	writeJSON(c, http.StatusOK, paginateGames(s.store.ListGameSummaries(), page, perPage))
}
