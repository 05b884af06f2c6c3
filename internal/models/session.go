package models

// Session is the authenticated team identity. The zero value is the unauthenticated state.
type Session struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

// Authenticated reports whether the session carries a team id.
func (s Session) Authenticated() bool {
	return s.TeamID != ""
}

// VictoryState is the outcome of the victory poller. EscapeKey is set only when Won is true.
type VictoryState struct {
	Won       bool   `json:"won"`
	EscapeKey string `json:"escape_key,omitempty"`
}

// NewVictory returns the won state carrying key.
func NewVictory(key string) VictoryState {
	return VictoryState{Won: true, EscapeKey: key}
}

// Snapshot is a consistent copy of the controller's state.
//
// Epoch increases on every login and reset; results tagged with an older epoch are stale.
type Snapshot struct {
	Session Session      `json:"session"`
	Victory VictoryState `json:"victory"`
	Epoch   uint64       `json:"epoch"`
}

// Polling reports whether the victory poller should be running for this snapshot.
func (s Snapshot) Polling() bool {
	return s.Session.Authenticated() && !s.Victory.Won
}
