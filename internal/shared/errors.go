package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Login errors
	ErrMissingTeamName      = fmt.Errorf("team name required")
	ErrInvalidAccessCode    = fmt.Errorf("invalid security clearance code")
	ErrConnectionFailed     = fmt.Errorf("connection to remote service failed")
	ErrAlreadyAuthenticated = fmt.Errorf("session already authenticated")
	ErrNotAuthenticated     = fmt.Errorf("not authenticated")
	ErrTimeout              = fmt.Errorf("operation timed out")

	// Polling errors are transient; they are logged and retried on the next tick.
	ErrPollFailed = fmt.Errorf("status poll failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMissionNotFound    = fmt.Errorf("mission not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
