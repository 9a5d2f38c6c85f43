package entity

// Snapshot is the serializable form of a game: every board played so far and the active position.
type Snapshot struct {
	History  []Board `json:"history"`
	Position int     `json:"position"`
}

// MoveEntry is one row of the history list.
type MoveEntry struct {
	Index       int    `json:"index"`
	IsFirst     bool   `json:"is_first"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// GameView is everything the presentation layer reads after an event.
type GameView struct {
	SessionID string      `json:"session_id,omitempty"`
	Board     Board       `json:"board"`
	Turn      Mark        `json:"turn"`
	Winner    Mark        `json:"winner"`
	Result    string      `json:"result"`
	Status    string      `json:"status"`
	Position  int         `json:"position"`
	Moves     []MoveEntry `json:"moves"`
}
