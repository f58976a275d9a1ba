// Package game implements the single-room bluff card game whose public state the board renders.
package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"bluff-board/internal/state"

	"github.com/google/uuid"
)

const DefaultRoomID = "game_room_1"

type Options struct {
	RoomID           string
	MaxPlayers       int
	CardsPerPlayer   int
	StartingScore    int
	ChallengeTimeout time.Duration
	Rand             *rand.Rand
	NewID            func() string
	Notifier         Notifier
	Recorder         Recorder
}

type Player struct {
	Name           string
	Score          int
	Roles          []Role
	GuardianActive bool
	MarkTarget     string
	MarkUsedTurn   string
	IsAdmin        bool
}

type prompt struct {
	id       string
	attacker string
	role     Role
	target   string
	hadCard  bool
	extra    Extra
	timer    *time.Timer
}

type forcedChoice struct {
	id    string
	timer *time.Timer
}

type Game struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex
	opts       Options
	rng        *rand.Rand

	players         []*Player
	logs            []string
	currentTurn     string
	started         bool
	pendingPromptID string
	drawPile        []Role
	discardPile     []Role
	turnMarker      string
	matchID         string

	prompts map[string]*prompt
	forced  map[string]*forcedChoice
	outbox  []func()
}

func New(opts Options) *Game {
	if opts.RoomID == "" {
		opts.RoomID = DefaultRoomID
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = 6
	}
	if opts.CardsPerPlayer <= 0 {
		opts.CardsPerPlayer = 5
	}
	if opts.ChallengeTimeout <= 0 {
		opts.ChallengeTimeout = 5 * time.Second
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Game{
		opts:    opts,
		rng:     rng,
		prompts: make(map[string]*prompt),
		forced:  make(map[string]*forcedChoice),
	}
}

// run executes fn under the game lock, then delivers whatever fn queued. Delivery for one
// call finishes before the next call's delivery starts.
func (g *Game) run(fn func() error) error {
	g.mu.Lock()
	err := fn()
	pending := g.outbox
	g.outbox = nil
	g.dispatchMu.Lock()
	g.mu.Unlock()
	defer g.dispatchMu.Unlock()
	for _, deliver := range pending {
		deliver()
	}
	return err
}

func (g *Game) after(deliver func()) {
	g.outbox = append(g.outbox, deliver)
}

func (g *Game) broadcast(event string, payload any) {
	if g.opts.Notifier == nil {
		return
	}
	g.after(func() { g.opts.Notifier.Broadcast(event, payload) })
}

func (g *Game) sendTo(player, event string, payload any) {
	if g.opts.Notifier == nil {
		return
	}
	g.after(func() { g.opts.Notifier.SendTo(player, event, payload) })
}

func (g *Game) emitState() {
	g.broadcast(EventGameState, g.publicStateLocked())
}

func (g *Game) log(line string) {
	g.logs = append(g.logs, line)
	if g.opts.Recorder == nil || g.matchID == "" {
		return
	}
	matchID, seq := g.matchID, len(g.logs)-1
	g.after(func() { g.opts.Recorder.LogAppended(matchID, seq, line) })
}

func (g *Game) find(name string) *Player {
	if name == "" {
		return nil
	}
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *Game) names() []string {
	names := make([]string, 0, len(g.players))
	for _, p := range g.players {
		names = append(names, p.Name)
	}
	return names
}

func (g *Game) newMarker() {
	g.turnMarker = g.opts.NewID()
}

func (g *Game) advanceTurn(from string) {
	names := g.names()
	if len(names) == 0 {
		g.currentTurn = ""
		return
	}
	if idx := indexOf(names, from); idx >= 0 {
		g.currentTurn = names[(idx+1)%len(names)]
		return
	}
	if idx := indexOf(names, g.currentTurn); idx >= 0 {
		g.currentTurn = names[(idx+1)%len(names)]
		return
	}
	g.currentTurn = names[0]
}

func (g *Game) discard(role Role) {
	g.discardPile = append(g.discardPile, role)
}

// drawOne reshuffles the discard pile into an empty draw pile first.
func (g *Game) drawOne() (Role, bool) {
	if len(g.drawPile) == 0 && len(g.discardPile) > 0 {
		g.rng.Shuffle(len(g.discardPile), func(i, j int) {
			g.discardPile[i], g.discardPile[j] = g.discardPile[j], g.discardPile[i]
		})
		g.drawPile = g.discardPile
		g.discardPile = nil
	}
	if len(g.drawPile) == 0 {
		return "", false
	}
	last := len(g.drawPile) - 1
	card := g.drawPile[last]
	g.drawPile = g.drawPile[:last]
	return card, true
}

func (g *Game) stopTimersLocked() {
	for id, pr := range g.prompts {
		pr.timer.Stop()
		delete(g.prompts, id)
	}
	for name, fc := range g.forced {
		fc.timer.Stop()
		delete(g.forced, name)
	}
	g.pendingPromptID = ""
}

// Close stops every pending timer. The game stays usable.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimersLocked()
}

func (g *Game) HasPlayer(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.find(name) != nil
}

// Cards returns the player's hand. Admins hold one of every role.
func (g *Game) Cards(name string) ([]Role, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.find(name)
	if p == nil {
		return nil, false
	}
	if p.IsAdmin {
		return append([]Role(nil), AllRoles...), true
	}
	return append([]Role{}, p.Roles...), true
}

type PublicPlayer struct {
	Score          int     `json:"score"`
	Roles          []Role  `json:"roles"`
	GuardianActive bool    `json:"guardian_active"`
	MarkTarget     *string `json:"mark_target"`
	MarkUsedTurn   *string `json:"mark_used_turn"`
	IsAdmin        bool    `json:"is_admin"`
}

// PublicState is the document served at /state. Players are listed in join order.
type PublicState struct {
	Players         state.Entries[PublicPlayer] `json:"players"`
	Logs            []string                    `json:"logs"`
	CurrentTurn     *string                     `json:"current_turn"`
	RoomID          string                      `json:"room_id"`
	GameStarted     bool                        `json:"game_started"`
	MaxPlayers      int                         `json:"max_players"`
	PendingPromptID *string                     `json:"pending_prompt_id"`
	DrawPile        []Role                      `json:"draw_pile"`
	DiscardPile     []Role                      `json:"discard_pile"`
	TurnMarker      *string                     `json:"turn_marker"`
}

// Board reduces the public state to what the dashboard renders.
func (s PublicState) Board() state.GameState {
	players := make(state.Entries[state.PlayerInfo], 0, len(s.Players))
	for _, entry := range s.Players {
		roles := make([]string, 0, len(entry.Value.Roles))
		for _, role := range entry.Value.Roles {
			roles = append(roles, string(role))
		}
		players = append(players, state.Entry[state.PlayerInfo]{
			Name:  entry.Name,
			Value: state.PlayerInfo{Score: float64(entry.Value.Score), Roles: roles},
		})
	}
	return state.GameState{Players: players, Logs: append([]string{}, s.Logs...)}
}

func (g *Game) PublicState() PublicState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.publicStateLocked()
}

func (g *Game) publicStateLocked() PublicState {
	players := make(state.Entries[PublicPlayer], 0, len(g.players))
	for _, p := range g.players {
		players = append(players, state.Entry[PublicPlayer]{
			Name: p.Name,
			Value: PublicPlayer{
				Score:          p.Score,
				Roles:          append([]Role{}, p.Roles...),
				GuardianActive: p.GuardianActive,
				MarkTarget:     nullable(p.MarkTarget),
				MarkUsedTurn:   nullable(p.MarkUsedTurn),
				IsAdmin:        p.IsAdmin,
			},
		})
	}
	return PublicState{
		Players:         players,
		Logs:            append([]string{}, g.logs...),
		CurrentTurn:     nullable(g.currentTurn),
		RoomID:          g.opts.RoomID,
		GameStarted:     g.started,
		MaxPlayers:      g.opts.MaxPlayers,
		PendingPromptID: nullable(g.pendingPromptID),
		DrawPile:        append([]Role{}, g.drawPile...),
		DiscardPile:     append([]Role{}, g.discardPile...),
		TurnMarker:      nullable(g.turnMarker),
	}
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func indexOf(values []string, target string) int {
	if target == "" {
		return -1
	}
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func hasRole(p *Player, role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func removeOneRole(p *Player, role Role) {
	for i, r := range p.Roles {
		if r == role {
			p.Roles = append(p.Roles[:i], p.Roles[i+1:]...)
			return
		}
	}
}
