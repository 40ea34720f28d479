package breakperiod

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles break period persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new break period repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Dates are rendered by Postgres so the DATE columns never pass through a
// time.Time and a session time zone.
const columns = `id, room_id, user_id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), mode, created_by_user_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*BreakPeriod, error) {
	p := &BreakPeriod{}
	err := row.Scan(&p.ID, &p.RoomID, &p.UserID, &p.StartDate, &p.EndDate, &p.Mode, &p.CreatedByUserID, &p.CreatedAt)
	return p, err
}

// Create inserts a break period
func (r *Repository) Create(ctx context.Context, p *BreakPeriod) error {
	query := `
		INSERT INTO member_break_periods (id, room_id, user_id, start_date, end_date, mode, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.RoomID, p.UserID, p.StartDate, p.EndDate, p.Mode, p.CreatedByUserID,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create break period: %w", err)
	}
	return nil
}

// GetByID retrieves a break period, or nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id string) (*BreakPeriod, error) {
	query := `SELECT ` + columns + ` FROM member_break_periods WHERE id = $1`

	p, err := scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get break period: %w", err)
	}
	return p, nil
}

// ListByRoom retrieves every break period of a room, earliest first
func (r *Repository) ListByRoom(ctx context.Context, roomID string) ([]*BreakPeriod, error) {
	query := `SELECT ` + columns + ` FROM member_break_periods WHERE room_id = $1 ORDER BY start_date, created_at`
	return r.list(ctx, query, roomID)
}

// ListCovering retrieves the room's break periods that contain date
func (r *Repository) ListCovering(ctx context.Context, roomID, date string) ([]*BreakPeriod, error) {
	query := `SELECT ` + columns + ` FROM member_break_periods
		WHERE room_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date, created_at`
	return r.list(ctx, query, roomID, date)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*BreakPeriod, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list break periods: %w", err)
	}
	defer rows.Close()

	periods := []*BreakPeriod{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// Delete removes a break period
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM member_break_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete break period: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrBreakPeriodNotFound
	}
	return nil
}
