package server

import (
	"net/http"
	"strings"
	"time"

	"bluff-board/internal/config"
	"bluff-board/internal/game"
	"bluff-board/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Server struct {
	game    *game.Game
	db      *gorm.DB
	hub     *hub
	cfg     config.Config
	history *historyWriter
	log     zerolog.Logger
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		db:  conn,
		hub: newHub(),
		cfg: cfg,
		log: logger.Component("server"),
	}
	opts := game.Options{
		MaxPlayers:       cfg.MaxPlayers,
		CardsPerPlayer:   cfg.CardsPerPlayer,
		StartingScore:    cfg.StartingScore,
		ChallengeTimeout: time.Duration(cfg.ChallengeTimeoutMS) * time.Millisecond,
		Notifier:         s,
	}
	if conn != nil {
		s.history = newHistoryWriter(conn, game.DefaultRoomID)
		opts.Recorder = s.history
	}
	s.game = game.New(opts)
	return s
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))

	r.GET("/", s.handleBoard)
	r.GET("/state", s.handleState)
	r.GET("/ws", s.handleWebsocket)
	api := r.Group("/api")
	api.GET("/matches", s.handleListMatches)
	api.GET("/matches/:id/logs", s.handleMatchLogs)
	r.Static("/static", s.cfg.StaticDir)
	return r
}

// Close stops game timers and flushes pending history writes.
func (s *Server) Close() {
	s.game.Close()
	if s.history != nil {
		s.history.Close()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Accept",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		MaxAge: 12 * time.Hour,
	}
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// the dashboard polls /state every couple of seconds
		level := zerolog.InfoLevel
		if c.Request.URL.Path == "/state" {
			level = zerolog.DebugLevel
		}
		s.log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}
