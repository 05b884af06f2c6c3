// package services defines the clients for the remote exercise API
package services

import (
	"context"

	"github.com/desertthunder/hawkins/internal/models"
)

// GameService is the contract the session controller and victory poller consume from the remote API.
type GameService interface {
	// CreateTeam registers a team and returns its identifier and (possibly normalized) name.
	CreateTeam(ctx context.Context, teamName string) (*models.Team, error)

	// TeamStatus reports whether the team has escaped.
	TeamStatus(ctx context.Context, teamID string) (*models.TeamStatus, error)

	// EscapeKey retrieves the completion key. Only meaningful after TeamStatus reports an escape.
	EscapeKey(ctx context.Context, teamID string) (string, error)
}
