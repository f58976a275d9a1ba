package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"bluff-board/internal/db"
	"bluff-board/internal/game"
	"bluff-board/internal/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const historyQueueSize = 256

// historyWriter persists match history off the game's delivery path. Jobs run in order
// on one goroutine; when the queue is full new jobs are dropped.
type historyWriter struct {
	db     *gorm.DB
	roomID string
	log    zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	closed bool
	jobs   chan func(*gorm.DB) error
	done   chan struct{}
}

func newHistoryWriter(conn *gorm.DB, roomID string) *historyWriter {
	h := &historyWriter{
		db:     conn,
		roomID: roomID,
		log:    logger.Component("history"),
		now:    time.Now,
		jobs:   make(chan func(*gorm.DB) error, historyQueueSize),
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *historyWriter) loop() {
	defer close(h.done)
	for job := range h.jobs {
		if err := job(h.db); err != nil {
			h.log.Error().Err(err).Msg("history write failed")
		}
	}
}

func (h *historyWriter) enqueue(job func(*gorm.DB) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.jobs <- job:
	default:
		h.log.Warn().Msg("history queue full, dropping write")
	}
}

// Close waits for queued writes to finish.
func (h *historyWriter) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.jobs)
	h.mu.Unlock()
	<-h.done
}

func (h *historyWriter) MatchStarted(matchID string, players []string) {
	names, err := json.Marshal(players)
	if err != nil {
		return
	}
	record := db.Match{
		ID:        matchID,
		RoomID:    h.roomID,
		Players:   datatypes.JSON(names),
		StartedAt: h.now(),
	}
	h.enqueue(func(conn *gorm.DB) error {
		return conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	})
}

func (h *historyWriter) LogAppended(matchID string, seq int, line string) {
	record := db.MatchLog{MatchID: matchID, Seq: seq, Line: line}
	h.enqueue(func(conn *gorm.DB) error {
		err := conn.Create(&record).Error
		if isUniqueViolation(err) {
			h.log.Debug().Str("match_id", matchID).Int("seq", seq).Msg("log line already stored")
			return nil
		}
		return err
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Server) listMatches(page, perPage int) ([]db.Match, int64, error) {
	var total int64
	query := s.db.Model(&db.Match{}).Where("room_id = ?", game.DefaultRoomID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var matches []db.Match
	err := query.Order("started_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&matches).Error
	return matches, total, err
}

func (s *Server) matchLogs(matchID string, page, perPage int) ([]db.MatchLog, int64, error) {
	var match db.Match
	if err := s.db.Select("id").First(&match, "id = ?", matchID).Error; err != nil {
		return nil, 0, err
	}
	var total int64
	query := s.db.Model(&db.MatchLog{}).Where("match_id = ?", matchID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []db.MatchLog
	err := query.Order("seq asc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error
	return logs, total, err
}
