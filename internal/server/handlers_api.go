package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type matchSummary struct {
	ID        string    `json:"id"`
	Players   []string  `json:"players"`
	StartedAt time.Time `json:"started_at"`
}

type matchLogLine struct {
	Seq  int    `json:"seq"`
	Line string `json:"line"`
}

type matchURI struct {
	ID string `uri:"id" binding:"required"`
}

func (s *Server) requireHistory(c *gin.Context) bool {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
		return false
	}
	return true
}

func (s *Server) handleListMatches(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	var q pageQuery
	if !bindQuery(c, &q, pageMessages) {
		return
	}
	page, perPage := q.normalize()
	matches, total, err := s.listMatches(page, perPage)
	if err != nil {
		s.log.Error().Err(err).Msg("list matches failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}
	items := make([]matchSummary, 0, len(matches))
	for _, match := range matches {
		var players []string
		if err := json.Unmarshal(match.Players, &players); err != nil {
			players = []string{}
		}
		items = append(items, matchSummary{ID: match.ID, Players: players, StartedAt: match.StartedAt})
	}
	c.JSON(http.StatusOK, gin.H{
		"matches":    items,
		"pagination": buildPagination(page, perPage, total),
	})
}

func (s *Server) handleMatchLogs(c *gin.Context) {
	if !s.requireHistory(c) {
		return
	}
	var uri matchURI
	if !bindURI(c, &uri) {
		return
	}
	if _, err := uuid.Parse(uri.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var q pageQuery
	if !bindQuery(c, &q, pageMessages) {
		return
	}
	page, perPage := q.normalize()
	logs, total, err := s.matchLogs(uri.ID, page, perPage)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("match_id", uri.ID).Msg("load match logs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	lines := make([]matchLogLine, 0, len(logs))
	for _, entry := range logs {
		lines = append(lines, matchLogLine{Seq: entry.Seq, Line: entry.Line})
	}
	c.JSON(http.StatusOK, gin.H{
		"match_id":   uri.ID,
		"logs":       lines,
		"pagination": buildPagination(page, perPage, total),
	})
}
