package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/shared"
)

var _ models.Repository[*models.Mission] = (*MissionRepository)(nil)

const missionColumns = `id, sequence, team_id, team_name, escape_key, escaped_at, created_at, updated_at, deleted_at`

// MissionRepository implements [models.Repository] for [models.Mission] persistence.
type MissionRepository struct {
	db *sql.DB
}

// NewMissionRepository creates a new [MissionRepository] with the given database connection
func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create inserts a new mission with generated ID and sequence
func (r *MissionRepository) Create(mission *models.Mission) error {
	if err := mission.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "missions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	mission.SetID(id)
	mission.SetSequence(sequence)

	query := `
		INSERT INTO missions (id, sequence, team_id, team_name, escape_key, escaped_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, mission.TeamID(), mission.TeamName(),
		nullString(mission.EscapeKey()), mission.EscapedAt(), mission.CreatedAt(), mission.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert mission: %w", err)
	}

	return nil
}

// Get retrieves a mission by ID, excluding soft-deleted missions
func (r *MissionRepository) Get(id string) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = ? AND deleted_at IS NULL`

	mission, err := scanMission(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mission: %w", err)
	}
	return mission, nil
}

// GetByTeamID retrieves the mission for a remote team id, excluding soft-deleted missions
func (r *MissionRepository) GetByTeamID(teamID string) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE team_id = ? AND deleted_at IS NULL`

	mission, err := scanMission(r.db.QueryRow(query, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: team %s", shared.ErrMissionNotFound, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mission: %w", err)
	}
	return mission, nil
}

// Update modifies an existing mission
func (r *MissionRepository) Update(mission *models.Mission) error {
	if err := mission.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	mission.SetUpdatedAt(now)

	query := `
		UPDATE missions
		SET team_name = ?, escape_key = ?, escaped_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, mission.TeamName(), nullString(mission.EscapeKey()), mission.EscapedAt(), now, mission.ID())
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	return requireAffected(result, mission.ID())
}

// MarkEscaped stores the escape key for teamID. Marking an already escaped mission overwrites the key.
func (r *MissionRepository) MarkEscaped(teamID, key string, at time.Time) error {
	if key == "" {
		return fmt.Errorf("%w: escape key is required", shared.ErrInvalidInput)
	}

	at = at.UTC()
	query := `
		UPDATE missions
		SET escape_key = ?, escaped_at = ?, updated_at = ?
		WHERE team_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, key, at, at, teamID)
	if err != nil {
		return fmt.Errorf("failed to mark mission escaped: %w", err)
	}
	return requireAffected(result, "team "+teamID)
}

// Delete soft-deletes a mission by ID
func (r *MissionRepository) Delete(id string) error {
	query := `
		UPDATE missions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	return requireAffected(result, id)
}

// List retrieves missions matching the given criteria, oldest first, excluding soft-deleted missions.
//
// Supported criteria: "team_name" (string), "escaped" (bool), "limit" (int).
func (r *MissionRepository) List(criteria map[string]any) ([]*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE deleted_at IS NULL`
	args := []any{}

	if name, ok := criteria["team_name"].(string); ok && name != "" {
		query += " AND team_name = ?"
		args = append(args, name)
	}

	if escaped, ok := criteria["escaped"].(bool); ok {
		if escaped {
			query += " AND escaped_at IS NOT NULL"
		} else {
			query += " AND escaped_at IS NULL"
		}
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	var missions []*models.Mission
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, mission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return missions, nil
}

// RecordMission stores a newly created team unless it is already known.
func (r *MissionRepository) RecordMission(session models.Session) error {
	_, err := r.GetByTeamID(session.TeamID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrMissionNotFound) {
		return err
	}
	return r.Create(models.NewMission(session.TeamID, session.TeamName))
}

// RecordEscape stores the escape key for a team, creating the mission if the team was never recorded.
func (r *MissionRepository) RecordEscape(teamID, key string, at time.Time) error {
	err := r.MarkEscaped(teamID, key, at)
	if !errors.Is(err, shared.ErrMissionNotFound) {
		return err
	}

	mission := models.NewMission(teamID, teamID)
	mission.MarkEscaped(key, at)
	return r.Create(mission)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMission(row scanner) (*models.Mission, error) {
	var (
		id        string
		sequence  int
		teamID    string
		teamName  string
		escapeKey sql.NullString
		escapedAt sql.NullTime
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &teamID, &teamName, &escapeKey, &escapedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	mission := models.NewMission(teamID, teamName)
	mission.SetID(id)
	mission.SetSequence(sequence)
	if escapedAt.Valid {
		mission.MarkEscaped(escapeKey.String, escapedAt.Time)
	}
	mission.SetCreatedAt(createdAt)
	mission.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		mission.SetDeletedAt(&deletedAt.Time)
	}
	return mission, nil
}

func requireAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s not found or already deleted", shared.ErrMissionNotFound, what)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
