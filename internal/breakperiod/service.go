package breakperiod

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fkhayef/mealsplit/internal/room"
)

var (
	ErrBreakPeriodNotFound = errors.New("break period not found")
	ErrInvalidRange        = errors.New("startDate must not be after endDate")
	ErrTargetNotActive     = errors.New("break periods can only be set for active members")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, p *BreakPeriod) error
	GetByID(ctx context.Context, id string) (*BreakPeriod, error)
	ListByRoom(ctx context.Context, roomID string) ([]*BreakPeriod, error)
	ListCovering(ctx context.Context, roomID, date string) ([]*BreakPeriod, error)
	Delete(ctx context.Context, id string) error
}

// RoomAccess checks room membership; *room.Service satisfies it
type RoomAccess interface {
	RequireMember(ctx context.Context, roomID, userID string) (*room.Member, error)
	GetMembership(ctx context.Context, roomID, userID string) (*room.Member, error)
}

// Service handles break period business logic
type Service struct {
	repo  Store
	rooms RoomAccess
}

// NewService creates a new break period service
func NewService(repo Store, rooms RoomAccess) *Service {
	return &Service{repo: repo, rooms: rooms}
}

// Create records a break period. Members may set their own; admins may set
// anyone's. The target must be active.
func (s *Service) Create(ctx context.Context, roomID, actorID string, req *CreateBreakPeriodRequest) (*BreakPeriod, error) {
	actor, err := s.rooms.RequireMember(ctx, roomID, actorID)
	if err != nil {
		return nil, err
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = actorID
	}
	if targetID != actorID && !actor.IsAdmin() {
		return nil, room.ErrNotAuthorized
	}

	target, err := s.rooms.GetMembership(ctx, roomID, targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive() {
		return nil, ErrTargetNotActive
	}

	p := &BreakPeriod{
		ID:              uuid.NewString(),
		RoomID:          roomID,
		UserID:          targetID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Mode:            req.Mode,
		CreatedByUserID: actorID,
	}
	if p.Mode == "" {
		p.Mode = ModeExclude
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the room's break periods for a member
func (s *Service) List(ctx context.Context, roomID, actorID string) ([]*BreakPeriod, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListByRoom(ctx, roomID)
}

// Delete removes a break period owned by the actor, or any in the room for admins
func (s *Service) Delete(ctx context.Context, roomID, actorID, periodID string) error {
	actor, err := s.rooms.RequireMember(ctx, roomID, actorID)
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, periodID)
	if err != nil {
		return err
	}
	if p == nil || p.RoomID != roomID {
		return ErrBreakPeriodNotFound
	}
	if p.UserID != actorID && !actor.IsAdmin() {
		return room.ErrNotAuthorized
	}
	return s.repo.Delete(ctx, periodID)
}

// Covering returns the room's break periods that contain date
func (s *Service) Covering(ctx context.Context, roomID, date string) ([]*BreakPeriod, error) {
	return s.repo.ListCovering(ctx, roomID, date)
}
