package db

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNoDSN = errors.New("DATABASE_URL is not set")

// Open connects to Postgres.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return conn, nil
}

// Migrate runs GORM auto-migrations for the history tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(&Match{}, &MatchLog{}); err != nil {
		return err
	}
	log.Info().Msg("database migration complete")
	return nil
}
