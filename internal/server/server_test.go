package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateEndpointEmptyRoom(t *testing.T) {
	_, ts := startServer(t, testConfig())

	resp := doRequest(t, ts, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	body := decodeBody(t, resp)
	assert.Equal(t, map[string]any{}, body["players"])
	assert.Equal(t, []any{}, body["logs"])
	assert.Equal(t, "game_room_1", body["room_id"])
	assert.Equal(t, false, body["game_started"])
	assert.Nil(t, body["current_turn"])
}

func TestStateListsPlayersInJoinOrder(t *testing.T) {
	srv, ts := startServer(t, testConfig())
	for _, name := range []string{"Zed", "Ada", "Mo"} {
		_, err := srv.game.Join(name)
		require.NoError(t, err)
	}

	resp := doRequest(t, ts, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Regexp(t, `"players":\{"Zed":\{.*\},"Ada":\{.*\},"Mo":\{`, string(raw))
}

func TestBoardPageHasRegions(t *testing.T) {
	_, ts := startServer(t, testConfig())

	resp := doRequest(t, ts, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, `id="players"`)
	assert.Contains(t, html, `id="logs"`)
	assert.Contains(t, html, "/static/board.wasm")
}

func TestStateAllowsAnyOriginByDefault(t *testing.T) {
	_, ts := startServer(t, testConfig())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/state", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStateRestrictsConfiguredOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"http://board.test"}
	_, ts := startServer(t, cfg)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/state", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://board.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://board.test", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://other.test")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHistoryUnavailableWithoutDatabase(t *testing.T) {
	_, ts := startServer(t, testConfig())

	for _, path := range []string{"/api/matches", "/api/matches/8f4c1c9e-0000-4000-8000-000000000000/logs"} {
		resp := doRequest(t, ts, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Equal(t, "history unavailable", decodeBody(t, resp)["error"])
	}
}

func TestBuildPagination(t *testing.T) {
	data := buildPagination(2, 10, 35)
	assert.Equal(t, 4, data.TotalPages)
	assert.True(t, data.HasPrev)
	assert.True(t, data.HasNext)
	assert.Equal(t, 1, data.PrevPage)
	assert.Equal(t, 3, data.NextPage)

	empty := buildPagination(1, 20, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasPrev)
	assert.False(t, empty.HasNext)
}

func TestPageQueryNormalize(t *testing.T) {
	page, perPage := pageQuery{}.normalize()
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPerPage, perPage)

	page, perPage = pageQuery{Page: 3, PerPage: 1000}.normalize()
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPerPage, perPage)
}

func TestValidateName(t *testing.T) {
	name, err := validateName("  小明   同學 ")
	require.NoError(t, err)
	assert.Equal(t, "小明 同學", name)

	_, err = validateName("   ")
	assert.Error(t, err)
	_, err = validateName("bad\x00name")
	assert.Error(t, err)
	_, err = validateName("abcdefghijklmnopqrstuvwxyz")
	assert.Error(t, err)
}

func TestCorsConfigWildcard(t *testing.T) {
	cfg := corsConfig([]string{"http://a.test", "*"})
	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowOrigins)

	cfg = corsConfig([]string{"http://a.test"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://a.test"}, cfg.AllowOrigins)
}
