package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/planning-board/internal/persistence"
)

// AppointmentRepository implements persistence.AppointmentRepository using
// SQLite. Times are stored as RFC3339 text, preserving the exclusive end
// bound as supplied.
type AppointmentRepository struct {
	pool *ConnectionPool
}

// NewAppointmentRepository creates a SQLite appointment repository.
func NewAppointmentRepository(pool *ConnectionPool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = "id, title, label, description, start_time, end_time, image_url, resource_id, category, created_at, updated_at"

// CreateAppointment inserts a single appointment.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	return r.CreateAppointments(ctx, []persistence.Appointment{appointment})
}

// CreateAppointments inserts the given appointments within one transaction,
// so a gesture that creates several split chunks commits atomically.
func (r *AppointmentRepository) CreateAppointments(ctx context.Context, appointments []persistence.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, appointment := range appointments {
			if err := insertAppointment(tx, appointment); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateAppointment rewrites an existing appointment record.
func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return updateAppointment(tx, appointment)
	})
}

// UpdateThenCreate applies an in-place update and a batch of creations in a
// single transaction. Gesture commits use this so a renderer can never
// observe the update without the creations.
func (r *AppointmentRepository) UpdateThenCreate(ctx context.Context, update persistence.Appointment, create []persistence.Appointment) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := updateAppointment(tx, update); err != nil {
			return err
		}
		for _, appointment := range create {
			if err := insertAppointment(tx, appointment); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAppointment retrieves an appointment by id.
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	if id == "" {
		return persistence.Appointment{}, persistence.ErrNotFound
	}

	query := "SELECT " + appointmentColumns + " FROM appointments WHERE id = ?"
	row := r.pool.db.QueryRowContext(ctx, query, id)

	appointment, err := scanAppointment(row)
	if err != nil {
		return persistence.Appointment{}, mapSQLiteError(err)
	}
	return appointment, nil
}

// ListAppointments lists appointments matching the filter, ordered by start
// time then id for deterministic lane assignment downstream.
func (r *AppointmentRepository) ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error) {
	query, args := buildAppointmentListQuery(filter)

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var appointments []persistence.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, mapSQLiteError(err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return appointments, nil
}

// DeleteAppointment removes an appointment by id.
func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", id)
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

func insertAppointment(tx *sql.Tx, appointment persistence.Appointment) error {
	if appointment.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query,
		appointment.ID,
		appointment.Title,
		nullableString(appointment.Label),
		appointment.Description,
		appointment.Start.Format(time.RFC3339),
		appointment.End.Format(time.RFC3339),
		nullableString(appointment.ImageURL),
		appointment.ResourceID,
		appointment.Category,
		appointment.CreatedAt.Format(time.RFC3339),
		appointment.UpdatedAt.Format(time.RFC3339),
	)
	return mapSQLiteError(err)
}

func updateAppointment(tx *sql.Tx, appointment persistence.Appointment) error {
	if appointment.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE appointments
		SET title = ?, label = ?, description = ?, start_time = ?, end_time = ?, image_url = ?, resource_id = ?, category = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.Exec(query,
		appointment.Title,
		nullableString(appointment.Label),
		appointment.Description,
		appointment.Start.Format(time.RFC3339),
		appointment.End.Format(time.RFC3339),
		nullableString(appointment.ImageURL),
		appointment.ResourceID,
		appointment.Category,
		appointment.UpdatedAt.Format(time.RFC3339),
		appointment.ID,
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (persistence.Appointment, error) {
	var appointment persistence.Appointment
	var label, imageURL sql.NullString
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&appointment.ID,
		&appointment.Title,
		&label,
		&appointment.Description,
		&startStr,
		&endStr,
		&imageURL,
		&appointment.ResourceID,
		&appointment.Category,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Appointment{}, err
	}

	if label.Valid {
		appointment.Label = &label.String
	}
	if imageURL.Valid {
		appointment.ImageURL = &imageURL.String
	}

	if appointment.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if appointment.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if appointment.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if appointment.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return appointment, nil
}

func buildAppointmentListQuery(filter persistence.AppointmentFilter) (string, []any) {
	query := "SELECT " + appointmentColumns + " FROM appointments"

	var conditions []string
	var args []any

	if len(filter.ResourceIDs) > 0 {
		placeholders := make([]string, len(filter.ResourceIDs))
		for i, id := range filter.ResourceIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conditions = append(conditions, fmt.Sprintf("resource_id IN (%s)", strings.Join(placeholders, ",")))
	}

	if filter.StartsAfter != nil {
		conditions = append(conditions, "end_time > ?")
		args = append(args, filter.StartsAfter.Format(time.RFC3339))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, filter.EndsBefore.Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	return query, args
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
