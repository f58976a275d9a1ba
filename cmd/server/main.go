package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bluff-board/internal/config"
	"bluff-board/internal/db"
	"bluff-board/internal/logger"
	"bluff-board/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		conn, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	} else {
		log.Info().Msg("DATABASE_URL not set, match history disabled")
	}

	srv := server.New(conn, cfg)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("bluff-board server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	srv.Close()
}
