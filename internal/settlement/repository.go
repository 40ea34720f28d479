package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/mealsplit/internal/ledger"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, room_id, payer_user_id, receiver_user_id, amount_cents, settled_at, created_by_user_id, created_at`

// Create inserts a settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) error {
	query := `
		INSERT INTO settlements (id, room_id, payer_user_id, receiver_user_id, amount_cents, settled_at, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.RoomID, s.PayerUserID, s.ReceiverUserID, s.AmountCents, s.SettledAt, s.CreatedByUserID,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// ListByRoom retrieves every settlement of a room, most recent first
func (r *Repository) ListByRoom(ctx context.Context, roomID string) ([]*Settlement, error) {
	query := `SELECT ` + columns + ` FROM settlements WHERE room_id = $1 ORDER BY settled_at DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	settlements := []*Settlement{}
	for rows.Next() {
		s := &Settlement{}
		if err := rows.Scan(
			&s.ID,
			&s.RoomID,
			&s.PayerUserID,
			&s.ReceiverUserID,
			&s.AmountCents,
			&s.SettledAt,
			&s.CreatedByUserID,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// UserLedger loads every settlement, in any room, where the user paid or received
func (r *Repository) UserLedger(ctx context.Context, userID string) ([]ledger.Settlement, error) {
	query := `
		SELECT payer_user_id, receiver_user_id, amount_cents, settled_at
		FROM settlements
		WHERE payer_user_id = $1 OR receiver_user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	defer rows.Close()

	var out []ledger.Settlement
	for rows.Next() {
		var s ledger.Settlement
		if err := rows.Scan(&s.PayerID, &s.ReceiverID, &s.AmountCents, &s.SettledAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ToLedger converts settlement rows to their ledger form
func ToLedger(settlements []*Settlement) []ledger.Settlement {
	out := make([]ledger.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = ledger.Settlement{
			PayerID:     s.PayerUserID,
			ReceiverID:  s.ReceiverUserID,
			AmountCents: s.AmountCents,
			SettledAt:   s.SettledAt,
		}
	}
	return out
}
