package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/mealsplit/internal/database"
)

// Repository handles room and membership persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new room repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const memberColumns = `m.id, m.room_id, m.user_id, m.role, m.status, m.joined_at, m.left_at, m.created_at, u.display_name, u.email`

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*Member, error) {
	member := &Member{}
	err := row.Scan(
		&member.ID,
		&member.RoomID,
		&member.UserID,
		&member.Role,
		&member.Status,
		&member.JoinedAt,
		&member.LeftAt,
		&member.CreatedAt,
		&member.DisplayName,
		&member.Email,
	)
	return member, err
}

// CreateWithOwner inserts the room and its owner membership in one transaction
func (r *Repository) CreateWithOwner(ctx context.Context, room *Room, owner *Member) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO rooms (id, name, currency, owner_user_id)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, room.ID, room.Name, room.Currency, room.OwnerUserID).Scan(&room.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO room_memberships (id, room_id, user_id, role, status, joined_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING joined_at, created_at
		`, owner.ID, owner.RoomID, owner.UserID, owner.Role, owner.Status).Scan(&owner.JoinedAt, &owner.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a room by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Room, error) {
	query := `
		SELECT id, name, currency, owner_user_id, created_at
		FROM rooms
		WHERE id = $1
	`

	room := &Room{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Currency,
		&room.OwnerUserID,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// ListByUserID retrieves every room the user has not left
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*Summary, error) {
	query := `
		SELECT r.id, r.name, r.currency, r.owner_user_id, r.created_at, m.status, m.role
		FROM rooms r
		JOIN room_memberships m ON m.room_id = r.id
		WHERE m.user_id = $1 AND m.status <> 'left'
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*Summary{}
	for rows.Next() {
		s := &Summary{}
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Currency,
			&s.OwnerUserID,
			&s.CreatedAt,
			&s.MembershipStatus,
			&s.MembershipRole,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	return rooms, nil
}

// CountByUserID counts rooms the user currently has access to
func (r *Repository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM room_memberships
		WHERE user_id = $1 AND status NOT IN ('left', 'rejected')
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

// GetMember retrieves a user's membership in a room
func (r *Repository) GetMember(ctx context.Context, roomID, userID string) (*Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM room_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1 AND m.user_id = $2
	`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, roomID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetMemberByID retrieves a membership by its own ID
func (r *Repository) GetMemberByID(ctx context.Context, memberID string) (*Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM room_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers retrieves every membership of a room, oldest first
func (r *Repository) ListMembers(ctx context.Context, roomID string) ([]*Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM room_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
		ORDER BY m.created_at, m.id
	`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// AddMember inserts a membership row
func (r *Repository) AddMember(ctx context.Context, member *Member) error {
	query := `
		INSERT INTO room_memberships (id, room_id, user_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, $5, CASE WHEN $5 = 'active' THEN NOW() END)
		RETURNING joined_at, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		member.ID,
		member.RoomID,
		member.UserID,
		member.Role,
		member.Status,
	).Scan(&member.JoinedAt, &member.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrMemberAlreadyExists
		}
		if database.IsForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// UpdateMemberStatus sets a membership status, stamping joined_at on
// activation and left_at on leaving
func (r *Repository) UpdateMemberStatus(ctx context.Context, memberID string, status MemberStatus) error {
	query := `
		UPDATE room_memberships
		SET status = $2,
		    joined_at = CASE WHEN $2 = 'active' THEN NOW() ELSE joined_at END,
		    left_at = CASE WHEN $2 = 'left' THEN NOW() ELSE NULL END
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, memberID, status)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	return expectOneRow(result)
}

// UpdateMemberRole sets a membership role
func (r *Repository) UpdateMemberRole(ctx context.Context, memberID string, role MemberRole) error {
	result, err := r.db.ExecContext(ctx, `UPDATE room_memberships SET role = $2 WHERE id = $1`, memberID, role)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return expectOneRow(result)
}

// CountActiveMembers counts active memberships in a room
func (r *Repository) CountActiveMembers(ctx context.Context, roomID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_memberships WHERE room_id = $1 AND status = 'active'`,
		roomID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active members: %w", err)
	}
	return count, nil
}

// CountActiveOwners counts active owners in a room
func (r *Repository) CountActiveOwners(ctx context.Context, roomID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_memberships WHERE room_id = $1 AND role = 'owner' AND status = 'active'`,
		roomID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return count, nil
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
