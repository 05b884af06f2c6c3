package session

import (
	"errors"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/shared"
)

// EventKind enumerates controller state changes.
type EventKind int

const (
	EventAuthenticated EventKind = iota
	EventPollFailed
	EventWon
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventAuthenticated:
		return "authenticated"
	case EventPollFailed:
		return "poll_failed"
	case EventWon:
		return "won"
	case EventReset:
		return "reset"
	default:
		return ""
	}
}

// Event is published on [Controller.Events] after the state it describes has been committed.
type Event struct {
	Kind     EventKind
	Snapshot models.Snapshot // State after the change
	Err      error           // Set for EventPollFailed
}

// Operator-facing messages for login failures.
const (
	MessageMissingTeamName  = "TEAM NAME REQUIRED"
	MessageInvalidCode      = "INVALID SECURITY CLEARANCE CODE"
	MessageConnectionFailed = "CONNECTION TO HAWKINS LAB FAILED"
	MessageSessionReset     = "SESSION RESET, TRY AGAIN"
)

// UserMessage maps a login error to the fixed message shown on the login form.
//
// Errors outside the login taxonomy are reported as connection failures.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrMissingTeamName):
		return MessageMissingTeamName
	case errors.Is(err, shared.ErrInvalidAccessCode):
		return MessageInvalidCode
	case errors.Is(err, shared.ErrNotAuthenticated):
		return MessageSessionReset
	default:
		return MessageConnectionFailed
	}
}
