package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/shared"
)

var _ GameService = (*HawkinsService)(nil)

// HawkinsService implements [GameService] over the exercise API's JSON endpoints.
type HawkinsService struct {
	api *APIService
}

// NewHawkinsService creates a game client that issues its requests through api.
func NewHawkinsService(api *APIService) *HawkinsService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	return &HawkinsService{api: api}
}

// API exposes the underlying raw client.
func (s *HawkinsService) API() *APIService {
	return s.api
}

// CreateTeam issues POST /create_team with the team name.
func (s *HawkinsService) CreateTeam(ctx context.Context, teamName string) (*models.Team, error) {
	var team models.Team
	if err := s.api.doJSON(ctx, http.MethodPost, "/create_team", models.CreateTeamRequest{TeamName: teamName}, &team); err != nil {
		return nil, err
	}

	if strings.TrimSpace(team.ID) == "" {
		return nil, fmt.Errorf("%w: create_team response has no team_id", shared.ErrAPIRequest)
	}
	if team.Name == "" {
		team.Name = teamName
	}
	return &team, nil
}

// TeamStatus issues GET /team_status/{team_id}.
func (s *HawkinsService) TeamStatus(ctx context.Context, teamID string) (*models.TeamStatus, error) {
	var raw map[string]any
	if err := s.api.doJSON(ctx, http.MethodGet, models.StatusPath(url.PathEscape(teamID)), nil, &raw); err != nil {
		return nil, err
	}

	return &models.TeamStatus{Escaped: truthy(raw["escaped"]), Raw: raw}, nil
}

// truthy interprets the escaped flag leniently: true, a non-zero number, or a string such as "true" or "1".
func truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// EscapeKey issues GET /{team_id}/key.
func (s *HawkinsService) EscapeKey(ctx context.Context, teamID string) (string, error) {
	var key models.EscapeKey
	if err := s.api.doJSON(ctx, http.MethodGet, models.KeyPath(url.PathEscape(teamID)), nil, &key); err != nil {
		return "", err
	}
	if key.Key == "" {
		return "", fmt.Errorf("%w: key response has no escape_key", shared.ErrAPIRequest)
	}
	return key.Key, nil
}

// MarshalStatus renders a status payload for display, falling back to the escaped flag alone.
func MarshalStatus(status *models.TeamStatus, pretty bool) ([]byte, error) {
	var payload any = map[string]any{"escaped": status.Escaped}
	if status.Raw != nil {
		payload = status.Raw
	}
	return shared.MarshalJSON(payload, pretty)
}
