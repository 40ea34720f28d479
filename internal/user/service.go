package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/mealsplit/internal/ledger"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) (*User, error)
}

// StatsSources load a user's activity across rooms
type StatsSources struct {
	Purchases interface {
		UserLedger(ctx context.Context, userID string) ([]ledger.Purchase, []ledger.Share, error)
	}
	Settlements interface {
		UserSettlements(ctx context.Context, userID string) ([]ledger.Settlement, error)
	}
	Rooms interface {
		CountForUser(ctx context.Context, userID string) (int, error)
	}
}

// Service handles user business logic
type Service struct {
	repo  Store
	stats StatsSources
	now   func() time.Time
}

// NewService creates a new user service
func NewService(repo Store, stats StatsSources) *Service {
	return &Service{repo: repo, stats: stats, now: time.Now}
}

// Create creates a new user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	u := &User{ID: uuid.NewString(), Email: req.Email, DisplayName: req.DisplayName}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List retrieves a page of users
func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update modifies the current user
func (s *Service) Update(ctx context.Context, id string, req *UpdateUserRequest) (*User, error) {
	if req.DisplayName == nil {
		return s.GetByID(ctx, id)
	}
	u, err := s.repo.UpdateDisplayName(ctx, id, *req.DisplayName)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Stats rolls up the user's purchases, shares and settlements in every room
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	purchases, shares, err := s.stats.Purchases.UserLedger(ctx, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.stats.Settlements.UserSettlements(ctx, userID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.stats.Rooms.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Stats:      ledger.ComputeStats(userID, purchases, shares, settlements, s.now()),
		RoomsCount: rooms,
	}, nil
}
