package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/mealsplit/internal/database"
	"github.com/fkhayef/mealsplit/internal/ledger"
)

// Repository handles purchase persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new purchase repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const purchaseColumns = `id, room_id, payer_user_id, total_cents, currency, purchased_at, split_mode, notes, category, created_by_user_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row scanner) (*Purchase, error) {
	p := &Purchase{}
	err := row.Scan(
		&p.ID,
		&p.RoomID,
		&p.PayerUserID,
		&p.TotalCents,
		&p.Currency,
		&p.PurchasedAt,
		&p.SplitMode,
		&p.Notes,
		&p.Category,
		&p.CreatedByUserID,
		&p.CreatedAt,
	)
	return p, err
}

// Create writes the purchase, its splits and its raw split inputs in one
// transaction. Either every row is stored or none is.
func (r *Repository) Create(ctx context.Context, ws *WriteSet) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		p := ws.Purchase
		err := tx.QueryRowContext(ctx, `
			INSERT INTO purchases (id, room_id, payer_user_id, total_cents, currency, purchased_at, split_mode, notes, category, created_by_user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at
		`, p.ID, p.RoomID, p.PayerUserID, p.TotalCents, p.Currency, p.PurchasedAt, p.SplitMode, p.Notes, p.Category, p.CreatedByUserID,
		).Scan(&p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		for _, s := range ws.Splits {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO purchase_splits (id, purchase_id, user_id, share_cents)
				VALUES ($1, $2, $3, $4)
			`, s.ID, s.PurchaseID, s.UserID, s.ShareCents)
			if err != nil {
				return fmt.Errorf("failed to create purchase split: %w", err)
			}
		}

		for _, in := range ws.Inputs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO purchase_split_inputs (id, purchase_id, user_id, raw_value, value)
				VALUES ($1, $2, $3, $4, $5)
			`, in.ID, in.PurchaseID, in.UserID, in.RawValue, in.Value)
			if err != nil {
				return fmt.Errorf("failed to create purchase split input: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a purchase, or nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id string) (*Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return p, nil
}

// ListByRoom retrieves a page of a room's purchases, newest first, with the total count
func (r *Repository) ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]*Purchase, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases WHERE room_id = $1`, roomID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE room_id = $1
		ORDER BY purchased_at DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, total, nil
}

// ListSplits retrieves a purchase's split rows ordered by user id
func (r *Repository) ListSplits(ctx context.Context, purchaseID string) ([]*Split, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, purchase_id, user_id, share_cents
		FROM purchase_splits
		WHERE purchase_id = $1
		ORDER BY user_id
	`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase splits: %w", err)
	}
	defer rows.Close()

	splits := []*Split{}
	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.PurchaseID, &s.UserID, &s.ShareCents); err != nil {
			return nil, fmt.Errorf("failed to scan purchase split: %w", err)
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

// ListSplitInputs retrieves the raw custom split values of a purchase
func (r *Repository) ListSplitInputs(ctx context.Context, purchaseID string) ([]*SplitInput, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, purchase_id, user_id, raw_value, value
		FROM purchase_split_inputs
		WHERE purchase_id = $1
		ORDER BY user_id
	`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase split inputs: %w", err)
	}
	defer rows.Close()

	inputs := []*SplitInput{}
	for rows.Next() {
		in := &SplitInput{}
		if err := rows.Scan(&in.ID, &in.PurchaseID, &in.UserID, &in.RawValue, &in.Value); err != nil {
			return nil, fmt.Errorf("failed to scan purchase split input: %w", err)
		}
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// RoomLedger loads every purchase and split row of a room in ledger form
func (r *Repository) RoomLedger(ctx context.Context, roomID string) ([]ledger.Purchase, []ledger.Share, error) {
	purchases, err := r.ledgerPurchases(ctx, `
		SELECT id, payer_user_id, total_cents, purchased_at
		FROM purchases
		WHERE room_id = $1
	`, roomID)
	if err != nil {
		return nil, nil, err
	}

	shares, err := r.ledgerShares(ctx, `
		SELECT s.purchase_id, s.user_id, s.share_cents
		FROM purchase_splits s
		JOIN purchases p ON p.id = s.purchase_id
		WHERE p.room_id = $1
	`, roomID)
	if err != nil {
		return nil, nil, err
	}
	return purchases, shares, nil
}

// UserLedger loads, across all rooms, the purchases a user paid for or has a
// share in, and the user's own split rows.
func (r *Repository) UserLedger(ctx context.Context, userID string) ([]ledger.Purchase, []ledger.Share, error) {
	purchases, err := r.ledgerPurchases(ctx, `
		SELECT p.id, p.payer_user_id, p.total_cents, p.purchased_at
		FROM purchases p
		WHERE p.payer_user_id = $1
		   OR EXISTS (SELECT 1 FROM purchase_splits s WHERE s.purchase_id = p.id AND s.user_id = $1)
	`, userID)
	if err != nil {
		return nil, nil, err
	}

	shares, err := r.ledgerShares(ctx, `
		SELECT purchase_id, user_id, share_cents
		FROM purchase_splits
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	return purchases, shares, nil
}

func (r *Repository) ledgerPurchases(ctx context.Context, query string, arg string) ([]ledger.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	defer rows.Close()

	var out []ledger.Purchase
	for rows.Next() {
		var p ledger.Purchase
		if err := rows.Scan(&p.ID, &p.PayerID, &p.TotalCents, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ledgerShares(ctx context.Context, query string, arg string) ([]ledger.Share, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase splits: %w", err)
	}
	defer rows.Close()

	var out []ledger.Share
	for rows.Next() {
		var s ledger.Share
		if err := rows.Scan(&s.PurchaseID, &s.MemberID, &s.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan purchase split: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
