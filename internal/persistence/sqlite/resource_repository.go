package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/planning-board/internal/persistence"
)

// ResourceRepository implements persistence.ResourceRepository and
// persistence.TeamRepository using SQLite.
type ResourceRepository struct {
	pool *ConnectionPool
}

// NewResourceRepository creates a SQLite resource repository.
func NewResourceRepository(pool *ConnectionPool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// CreateResource inserts a new resource.
func (r *ResourceRepository) CreateResource(ctx context.Context, resource persistence.Resource) error {
	if resource.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO resources (id, name, avatar_url, team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		resource.ID,
		resource.Name,
		nullableString(resource.AvatarURL),
		nullableString(resource.TeamID),
		resource.CreatedAt.Format(time.RFC3339),
		resource.UpdatedAt.Format(time.RFC3339),
	)
	return mapSQLiteError(err)
}

// UpdateResource rewrites an existing resource.
func (r *ResourceRepository) UpdateResource(ctx context.Context, resource persistence.Resource) error {
	query := `
		UPDATE resources
		SET name = ?, avatar_url = ?, team_id = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		resource.Name,
		nullableString(resource.AvatarURL),
		nullableString(resource.TeamID),
		resource.UpdatedAt.Format(time.RFC3339),
		resource.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetResource retrieves a resource by id.
func (r *ResourceRepository) GetResource(ctx context.Context, id string) (persistence.Resource, error) {
	if id == "" {
		return persistence.Resource{}, persistence.ErrNotFound
	}

	query := "SELECT id, name, avatar_url, team_id, created_at, updated_at FROM resources WHERE id = ?"
	row := r.pool.db.QueryRowContext(ctx, query, id)

	resource, err := scanResource(row)
	if err != nil {
		return persistence.Resource{}, mapSQLiteError(err)
	}
	return resource, nil
}

// ListResources lists all resources ordered by name.
func (r *ResourceRepository) ListResources(ctx context.Context) ([]persistence.Resource, error) {
	query := "SELECT id, name, avatar_url, team_id, created_at, updated_at FROM resources ORDER BY name ASC, id ASC"
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var resources []persistence.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, mapSQLiteError(err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return resources, nil
}

// DeleteResource removes a resource by id.
func (r *ResourceRepository) DeleteResource(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM resources WHERE id = ?", id)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// CreateTeam inserts a new team.
func (r *ResourceRepository) CreateTeam(ctx context.Context, team persistence.Team) error {
	if team.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO teams (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		team.ID,
		team.Name,
		nullableString(team.Color),
		team.CreatedAt.Format(time.RFC3339),
		team.UpdatedAt.Format(time.RFC3339),
	)
	return mapSQLiteError(err)
}

// GetTeam retrieves a team by id.
func (r *ResourceRepository) GetTeam(ctx context.Context, id string) (persistence.Team, error) {
	if id == "" {
		return persistence.Team{}, persistence.ErrNotFound
	}

	query := "SELECT id, name, color, created_at, updated_at FROM teams WHERE id = ?"
	row := r.pool.db.QueryRowContext(ctx, query, id)

	team, err := scanTeam(row)
	if err != nil {
		return persistence.Team{}, mapSQLiteError(err)
	}
	return team, nil
}

// ListTeams lists all teams ordered by name.
func (r *ResourceRepository) ListTeams(ctx context.Context) ([]persistence.Team, error) {
	query := "SELECT id, name, color, created_at, updated_at FROM teams ORDER BY name ASC, id ASC"
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var teams []persistence.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, mapSQLiteError(err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return teams, nil
}

// DeleteTeam removes a team by id.
func (r *ResourceRepository) DeleteTeam(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanResource(row rowScanner) (persistence.Resource, error) {
	var resource persistence.Resource
	var avatarURL, teamID sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(&resource.ID, &resource.Name, &avatarURL, &teamID, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Resource{}, err
	}

	if avatarURL.Valid {
		resource.AvatarURL = &avatarURL.String
	}
	if teamID.Valid {
		resource.TeamID = &teamID.String
	}

	if resource.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Resource{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if resource.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Resource{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return resource, nil
}

func scanTeam(row rowScanner) (persistence.Team, error) {
	var team persistence.Team
	var color sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(&team.ID, &team.Name, &color, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Team{}, err
	}

	if color.Valid {
		team.Color = &color.String
	}

	if team.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Team{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if team.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Team{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return team, nil
}
