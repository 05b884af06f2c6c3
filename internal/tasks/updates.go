package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ProbeStart Phase = iota
	ProbeEndpoint
	ProbeDone
)

func (p Phase) String() string {
	switch p {
	case ProbeStart:
		return "probe_start"
	case ProbeEndpoint:
		return "probe_endpoint"
	case ProbeDone:
		return "probe_done"
	default:
		return ""
	}
}

func probeStartUpdate(teamID string, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Probing %d endpoints for team %s...", total, teamID),
	}
}

func endpointOKUpdate(step, total int, res EndpointResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeEndpoint,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s %s (%d)", step, total, res.Endpoint.Method, res.Endpoint.Path, res.StatusCode),
		Data:    res,
	}
}

func endpointFailedUpdate(step, total int, res EndpointResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeEndpoint,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s %s: %v", step, total, res.Endpoint.Method, res.Endpoint.Path, res.Error),
		Data:    res,
	}
}

func probeDoneUpdate(result *ProbeResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeDone,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Probe finished: %d ok, %d failed", result.SuccessCount, result.FailedCount),
		Data:    result,
	}
}
