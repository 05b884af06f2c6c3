package models

import (
	"fmt"
	"strings"
	"time"
)

// Mission is a team created through the console, persisted so escape keys survive a reset.
type Mission struct {
	id        string
	sequence  int
	teamID    string
	teamName  string
	escapeKey string
	escapedAt *time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewMission creates a mission for a freshly created team.
func NewMission(teamID, teamName string) *Mission {
	now := time.Now().UTC()
	return &Mission{
		teamID:    teamID,
		teamName:  teamName,
		createdAt: now,
		updatedAt: now,
	}
}

func (m *Mission) ID() string            { return m.id }
func (m *Mission) Sequence() int         { return m.sequence }
func (m *Mission) TeamID() string        { return m.teamID }
func (m *Mission) TeamName() string      { return m.teamName }
func (m *Mission) EscapeKey() string     { return m.escapeKey }
func (m *Mission) EscapedAt() *time.Time { return m.escapedAt }
func (m *Mission) CreatedAt() time.Time  { return m.createdAt }
func (m *Mission) UpdatedAt() time.Time  { return m.updatedAt }
func (m *Mission) DeletedAt() *time.Time { return m.deletedAt }

func (m *Mission) SetID(id string)                 { m.id = id }
func (m *Mission) SetSequence(seq int)             { m.sequence = seq }
func (m *Mission) SetCreatedAt(t time.Time)        { m.createdAt = t }
func (m *Mission) SetUpdatedAt(t time.Time)        { m.updatedAt = t }
func (m *Mission) SetDeletedAt(t *time.Time)       { m.deletedAt = t }
func (m *Mission) SetTeam(teamID, teamName string) { m.teamID, m.teamName = teamID, teamName }

// Escaped reports whether an escape key has been recorded.
func (m *Mission) Escaped() bool { return m.escapedAt != nil }

// MarkEscaped records the escape key and when it was retrieved.
func (m *Mission) MarkEscaped(key string, at time.Time) {
	at = at.UTC()
	m.escapeKey = key
	m.escapedAt = &at
	m.updatedAt = at
}

// Validate checks required fields and the key/escaped pairing.
func (m *Mission) Validate() error {
	if strings.TrimSpace(m.teamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(m.teamName) == "" {
		return fmt.Errorf("team name is required")
	}
	if (m.escapeKey != "") != (m.escapedAt != nil) {
		return fmt.Errorf("escape key and escape time must be set together")
	}
	return nil
}

// Status is a short label for listings.
func (m *Mission) Status() string {
	if m.Escaped() {
		return "escaped"
	}
	return "active"
}
