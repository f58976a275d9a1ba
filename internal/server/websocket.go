package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	wsBurst     = 10
	wsWriteWait = 10 * time.Second
)

// envelope is the frame shape in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	limiter *rate.Limiter

	mu     sync.Mutex
	player string
}

func (c *wsClient) Player() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

func (c *wsClient) setPlayer(name string) {
	c.mu.Lock()
	c.player = name
	c.mu.Unlock()
}

// write fails once the peer has not accepted data within wait, so one stalled
// connection cannot hold up delivery to the rest.
func (c *wsClient) write(data []byte, wait time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type hub struct {
	mu        sync.Mutex
	conns     map[*wsClient]struct{}
	writeWait time.Duration
}

func newHub() *hub {
	return &hub{conns: make(map[*wsClient]struct{}), writeWait: wsWriteWait}
}

func (h *hub) Add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[client] = struct{}{}
}

func (h *hub) Remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, client)
	_ = client.conn.Close()
}

func (h *hub) snapshot(match func(*wsClient) bool) []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*wsClient, 0, len(h.conns))
	for client := range h.conns {
		if match == nil || match(client) {
			clients = append(clients, client)
		}
	}
	return clients
}

func (h *hub) SetWriteWait(wait time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeWait = wait
}

func (h *hub) currentWriteWait() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writeWait
}

func (h *hub) Send(client *wsClient, event string, payload any) {
	data, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return
	}
	if err := client.write(data, h.currentWriteWait()); err != nil {
		h.Remove(client)
	}
}

func (h *hub) Broadcast(event string, payload any) {
	h.deliver(nil, event, payload)
}

// SendToPlayer reaches every connection bound to the player name.
func (h *hub) SendToPlayer(player, event string, payload any) {
	h.deliver(func(c *wsClient) bool { return c.Player() == player }, event, payload)
}

func (h *hub) deliver(match func(*wsClient) bool, event string, payload any) {
	clients := h.snapshot(match)
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return
	}
	wait := h.currentWriteWait()
	for _, client := range clients {
		if err := client.write(data, wait); err != nil {
			h.Remove(client)
		}
	}
}

func (h *hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (s *Server) handleWebsocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	perSecond := s.cfg.WSMessagesPerSecond
	if perSecond <= 0 {
		perSecond = 5
	}
	client := &wsClient{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(perSecond), wsBurst),
	}
	s.log.Info().Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	s.hub.Add(client)
	s.hub.Send(client, eventConnected, connectedPayload{Message: "連線成功"})
	go s.readWS(client)
}

func (s *Server) readWS(client *wsClient) {
	defer func() {
		s.hub.Remove(client)
		if player := client.Player(); player != "" {
			s.game.Leave(player)
		}
	}()
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			s.log.Info().Str("player", client.Player()).Err(err).Msg("ws disconnected")
			return
		}
		var msg envelope
		if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
			s.sendError(client, errMalformedMessage)
			continue
		}
		if !client.limiter.Allow() {
			s.sendError(client, errSlowDown)
			continue
		}
		s.dispatch(client, msg)
	}
}
