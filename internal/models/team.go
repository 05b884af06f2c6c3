package models

// Team is returned by POST /create_team.
type Team struct {
	ID   string `json:"team_id"`
	Name string `json:"team_name"`
}

// CreateTeamRequest is the body of POST /create_team.
type CreateTeamRequest struct {
	TeamName string `json:"team_name"`
}

// TeamStatus is returned by GET /team_status/{team_id}.
//
// Only Escaped is interpreted; the rest of the payload is kept for display.
type TeamStatus struct {
	Escaped bool           `json:"escaped"`
	Raw     map[string]any `json:"-"`
}

// EscapeKey is returned by GET /{team_id}/key.
type EscapeKey struct {
	Key string `json:"escape_key"`
}
