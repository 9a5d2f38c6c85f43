package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const (
	actionSessionNew    = "session:new"
	actionSessionResume = "session:resume"
	actionGamePlay      = "game:play"
	actionGameJump      = "game:jump"
	actionGameRestart   = "game:restart"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses. Requests fill the session and the event argument,
// responses carry either the game or an error.
type Payload struct {
	SessionID string           `json:"session_id,omitempty"`
	Cell      *int             `json:"cell,omitempty"`
	Position  *int             `json:"position,omitempty"`
	Game      *entity.GameView `json:"game,omitempty"`
	Error     string           `json:"error,omitempty"`
}
