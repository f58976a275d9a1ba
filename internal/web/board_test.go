package web

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bluff-board/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render(&buf))
	return buf.String()
}

func TestPlayersPanelLine(t *testing.T) {
	players := state.Entries[state.PlayerInfo]{
		{Name: "Alice", Value: state.PlayerInfo{Score: 3, Roles: []string{"seer"}}},
		{Name: "Bob", Value: state.PlayerInfo{Score: -2.5, Roles: []string{"fool", "thief"}}},
	}
	out := renderString(t, func(buf *bytes.Buffer) error {
		return PlayersPanel(players).Render(context.Background(), buf)
	})
	assert.Equal(t,
		"<h2>玩家狀態</h2><p>Alice - 分數: 3 - 角色: seer</p><p>Bob - 分數: -2.5 - 角色: fool, thief</p>",
		out)
}

func TestPlayersPanelEmpty(t *testing.T) {
	out := renderString(t, func(buf *bytes.Buffer) error {
		return PlayersPanel(nil).Render(context.Background(), buf)
	})
	assert.Equal(t, "<h2>玩家狀態</h2>", out)
}

func TestLogsPanelOrder(t *testing.T) {
	out := renderString(t, func(buf *bytes.Buffer) error {
		return LogsPanel([]string{"a", "b"}).Render(context.Background(), buf)
	})
	assert.Equal(t, "<h2>遊戲紀錄</h2><p>a</p><p>b</p>", out)
}

func TestPanelsEscapeMarkup(t *testing.T) {
	players := state.Entries[state.PlayerInfo]{
		{Name: "<b>x</b>", Value: state.PlayerInfo{Score: 1}},
	}
	out := renderString(t, func(buf *bytes.Buffer) error {
		return PlayersPanel(players).Render(context.Background(), buf)
	})
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")

	logs := renderString(t, func(buf *bytes.Buffer) error {
		return LogsPanel([]string{`<script>alert(1)</script>`}).Render(context.Background(), buf)
	})
	assert.NotContains(t, logs, "<script>")
}

func TestRenderRegions(t *testing.T) {
	regions, err := RenderRegions(context.Background(), state.GameState{Logs: []string{"x"}})
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, RegionPlayers, regions[0].ID)
	assert.Equal(t, "<h2>玩家狀態</h2>", regions[0].HTML)
	assert.Equal(t, RegionLogs, regions[1].ID)
	assert.Equal(t, "<h2>遊戲紀錄</h2><p>x</p>", regions[1].HTML)
}

func TestBoardHasRegions(t *testing.T) {
	out := renderString(t, func(buf *bytes.Buffer) error {
		return Board(BoardAssets{WasmExecJS: "/static/wasm_exec.js", BoardWasm: "/static/board.wasm"}).Render(context.Background(), buf)
	})
	assert.Contains(t, out, `id="players"`)
	assert.Contains(t, out, `id="logs"`)
	assert.Contains(t, out, `/static/board.wasm`)
}

func TestAssetPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "board.wasm"), []byte("wasm"), 0o644))

	versioned := AssetPath(dir, "/static/board.wasm")
	assert.True(t, strings.HasPrefix(versioned, "/static/board.wasm?v="), versioned)
	assert.Equal(t, "/static/missing.js", AssetPath(dir, "/static/missing.js"))
	assert.Equal(t, "/other", AssetPath(dir, "/other"))
}
