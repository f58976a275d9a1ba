package game

// Outbound event names. They match what board clients already listen for.
const (
	EventGameState      = "game_state"
	EventPlayerJoined   = "player_joined"
	EventPlayerLeft     = "player_left"
	EventGameStarted    = "game_started"
	EventBluffChallenge = "bluff_challenge"
	EventBluffResult    = "bluff_result"
	EventForceChoice    = "force_choice"
)

const ChoiceDiscardOne = "discard_one"

// Notifier delivers events. Calls arrive in the order the game produced them and never
// while the game lock is held. Implementations must not call back into the Game.
type Notifier interface {
	Broadcast(event string, payload any)
	SendTo(player string, event string, payload any)
}

// Recorder receives the match history. Both methods may be called from timer goroutines.
type Recorder interface {
	MatchStarted(matchID string, players []string)
	LogAppended(matchID string, seq int, line string)
}

type PlayerJoined struct {
	Player       string `json:"player"`
	TotalPlayers int    `json:"total_players"`
}

type PlayerLeft struct {
	Player string `json:"player"`
}

type GameStarted struct {
	Message string `json:"message"`
}

type BluffChallenge struct {
	PromptID  string `json:"prompt_id"`
	Player    string `json:"player"`
	Role      Role   `json:"role"`
	Target    string `json:"target"`
	TimeoutMS int    `json:"timeout_ms"`
}

type BluffResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ForceChoice struct {
	PromptID  string `json:"prompt_id"`
	TimeoutMS int    `json:"timeout_ms"`
}

// Extra carries the gifter's mode: "A" (default) or "B" to split damage over two targets.
type Extra struct {
	Mode         string `json:"mode,omitempty"`
	SecondTarget string `json:"second_target,omitempty"`
}
