package server

import (
	"net/http"
	"time"

	"regex-game/internal/config"
	"regex-game/internal/match"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	store  *Store
	db     *gorm.DB
	ws     *wsHub
	cfg    config.Config
	engine *match.Engine
	now    func() time.Time
}

// New builds a server. conn may be nil, in which case games live only in
// memory.
func New(conn *gorm.DB, cfg config.Config) *Server {
	registerValidators()
	return &Server{
		store: NewStore(),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
		engine: match.NewEngine(match.Options{
			Timeout:          cfg.MatchTimeout(),
			MaxPatternLength: cfg.MaxPatternLength,
		}),
		now: timeNowUTC,
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(s.cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  s.cfg.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Host-Token"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/", s.handleHome)
	router.GET("/join/:code", s.handleHome)

	api := router.Group("/api")
	{
		api.GET("/games", s.handleListGames)
		api.POST("/games", s.handleCreateGame)
		api.POST("/games/resume", s.handleResumeHost)
		api.POST("/join", s.handleJoin)
		api.POST("/preview", s.handlePreview)

		games := api.Group("/games/:id")
		games.POST("/questions", s.handleLoadQuestions)
		games.POST("/questions/csv", s.handleLoadQuestionsCSV)
		games.POST("/start", s.handleStart)
		games.POST("/advance", s.handleAdvance)
		games.POST("/extend", s.handleExtend)
		games.POST("/end-question", s.handleEndQuestion)
		games.POST("/end", s.handleEndGame)
		games.POST("/kick", s.handleKick)
		games.POST("/submissions", s.handleSubmit)
		games.GET("/state", s.handleState)
		games.GET("/question.html", s.handleQuestionHTML)
		games.GET("/qr.png", s.handleQRCode)
	}

	router.GET("/ws/games/:id", s.handleWebsocket)
	return router
}
