package server

import (
	"net/http"

	"bluff-board/internal/web"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleBoard(c *gin.Context) {
	assets := web.BoardAssets{
		WasmExecJS: web.AssetPath(s.cfg.StaticDir, "/static/wasm_exec.js"),
		BoardWasm:  web.AssetPath(s.cfg.StaticDir, "/static/board.wasm"),
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := web.Board(assets).Render(c.Request.Context(), c.Writer); err != nil {
		s.log.Error().Err(err).Msg("render board failed")
	}
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.PublicState())
}
