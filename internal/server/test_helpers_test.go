package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"bluff-board/internal/config"
	"bluff-board/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitWriter(io.Discard, "error")
	os.Exit(m.Run())
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StaticDir = os.TempDir()
	cfg.ChallengeTimeoutMS = 200
	return cfg
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func startServer(t *testing.T, cfg config.Config) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(nil, cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if event := readWSEvent(t, conn, 5*time.Second); event.Event != eventConnected {
		t.Fatalf("expected first message %s, got %s", eventConnected, event.Event)
	}
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	payload := map[string]any{"event": event}
	if data != nil {
		payload["data"] = data
	}
	if err := conn.WriteJSON(payload); err != nil {
		t.Fatalf("write websocket message: %v", err)
	}
}

func readWSEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) wsEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var event wsEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode websocket message %q: %v", payload, err)
	}
	return event
}

// waitForWSEvent skips messages until one with the given event name arrives.
func waitForWSEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration, name string) wsEvent {
	t.Helper()
	seen := make([]string, 0, 4)
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("timed out waiting for %s; seen=%v", name, seen)
		}
		event := readWSEvent(t, conn, remaining)
		if event.Event == name {
			return event
		}
		seen = append(seen, event.Event)
	}
}

func expectNoWSMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no websocket message within %s", timeout)
	} else {
		netErr, ok := err.(net.Error)
		if !ok || !netErr.Timeout() {
			t.Fatalf("expected websocket timeout, got %v", err)
		}
	}
}

func errorMessage(t *testing.T, event wsEvent) string {
	t.Helper()
	var payload errorPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Message
}
