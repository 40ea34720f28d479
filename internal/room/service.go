package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrMemberNotFound      = errors.New("membership not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this room")
	ErrNotRoomMember       = errors.New("not a room member")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrRoomFull            = errors.New("room has reached its active member limit")
	ErrOwnerCannotLeave    = errors.New("owner cannot leave without transferring ownership")
	ErrOwnerImmutable      = errors.New("owner membership cannot be changed")
	ErrInvalidStatus       = errors.New("invalid membership status")
	ErrInvalidRole         = errors.New("role must be admin or member")
)

// Store is the persistence the room service needs
type Store interface {
	CreateWithOwner(ctx context.Context, room *Room, owner *Member) error
	GetByID(ctx context.Context, id string) (*Room, error)
	ListByUserID(ctx context.Context, userID string) ([]*Summary, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	GetMember(ctx context.Context, roomID, userID string) (*Member, error)
	GetMemberByID(ctx context.Context, memberID string) (*Member, error)
	ListMembers(ctx context.Context, roomID string) ([]*Member, error)
	AddMember(ctx context.Context, member *Member) error
	UpdateMemberStatus(ctx context.Context, memberID string, status MemberStatus) error
	UpdateMemberRole(ctx context.Context, memberID string, role MemberRole) error
	CountActiveMembers(ctx context.Context, roomID string) (int, error)
	CountActiveOwners(ctx context.Context, roomID string) (int, error)
}

// Service handles room business logic and membership guards
type Service struct {
	repo             Store
	maxActiveMembers int
}

// NewService creates a new room service. maxActiveMembers caps active
// memberships per room.
func NewService(repo Store, maxActiveMembers int) *Service {
	return &Service{repo: repo, maxActiveMembers: maxActiveMembers}
}

// Create creates a room and makes the creator its active owner
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateRoomRequest) (*Room, error) {
	room := &Room{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Currency:    req.Currency,
		OwnerUserID: creatorID,
	}
	if room.Currency == "" {
		room.Currency = DefaultCurrency
	}

	owner := &Member{
		ID:     uuid.NewString(),
		RoomID: room.ID,
		UserID: creatorID,
		Role:   MemberRoleOwner,
		Status: MemberStatusActive,
	}

	if err := s.repo.CreateWithOwner(ctx, room, owner); err != nil {
		return nil, err
	}

	slog.Info("room created", "room_id", room.ID, "owner_id", creatorID)
	return room, nil
}

// GetRoom retrieves a room by its ID
func (s *Service) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	room, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// GetWithMembers retrieves a room and its members for a user with access
func (s *Service) GetWithMembers(ctx context.Context, roomID, userID string) (*Room, []*Member, error) {
	if _, err := s.RequireMember(ctx, roomID, userID); err != nil {
		return nil, nil, err
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.ListMembers(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	return room, members, nil
}

// ListForUser retrieves the rooms a user belongs to
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Summary, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// CountForUser counts the rooms a user currently has access to
func (s *Service) CountForUser(ctx context.Context, userID string) (int, error) {
	return s.repo.CountByUserID(ctx, userID)
}

// ListMembers retrieves every membership of a room regardless of status
func (s *Service) ListMembers(ctx context.Context, roomID string) ([]*Member, error) {
	return s.repo.ListMembers(ctx, roomID)
}

// GetMembership returns a user's membership or ErrMemberNotFound
func (s *Service) GetMembership(ctx context.Context, roomID, userID string) (*Member, error) {
	member, err := s.repo.GetMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RequireMember returns the caller's membership when it grants read access
// (exists and is neither left nor rejected).
func (s *Service) RequireMember(ctx context.Context, roomID, userID string) (*Member, error) {
	member, err := s.repo.GetMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.HasAccess() {
		return nil, ErrNotRoomMember
	}
	return member, nil
}

// RequireAdmin returns the caller's membership when it is an owner or admin
// with access.
func (s *Service) RequireAdmin(ctx context.Context, roomID, userID string) (*Member, error) {
	member, err := s.repo.GetMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	return member, nil
}

// IsAdmin reports whether userID administers roomID
func (s *Service) IsAdmin(ctx context.Context, roomID, userID string) (bool, error) {
	_, err := s.RequireAdmin(ctx, roomID, userID)
	if errors.Is(err, ErrNotAuthorized) {
		return false, nil
	}
	return err == nil, err
}

// AddMember adds a user to a room as an active member. A user who previously
// left or was rejected is reactivated.
func (s *Service) AddMember(ctx context.Context, roomID, actorID string, req *AddMemberRequest) (*Member, error) {
	if _, err := s.RequireAdmin(ctx, roomID, actorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, roomID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, ErrMemberAlreadyExists
	}

	if err := s.ensureCapacity(ctx, roomID); err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.repo.UpdateMemberStatus(ctx, existing.ID, MemberStatusActive); err != nil {
			return nil, err
		}
		return s.repo.GetMemberByID(ctx, existing.ID)
	}

	member := &Member{
		ID:     uuid.NewString(),
		RoomID: roomID,
		UserID: req.UserID,
		Role:   req.Role,
		Status: MemberStatusActive,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	slog.Info("member added", "room_id", roomID, "user_id", req.UserID, "by", actorID)
	return s.repo.GetMemberByID(ctx, member.ID)
}

// UpdateMemberStatus moves a membership between statuses. Activation is
// subject to the active member cap; the owner's membership is fixed.
func (s *Service) UpdateMemberStatus(ctx context.Context, roomID, actorID, memberID string, status MemberStatus) (*Member, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := s.RequireAdmin(ctx, roomID, actorID); err != nil {
		return nil, err
	}

	target, err := s.memberInRoom(ctx, roomID, memberID)
	if err != nil {
		return nil, err
	}
	if target.Role == MemberRoleOwner {
		return nil, ErrOwnerImmutable
	}
	if target.Status == status {
		return target, nil
	}

	if status == MemberStatusActive {
		if err := s.ensureCapacity(ctx, roomID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateMemberStatus(ctx, memberID, status); err != nil {
		return nil, err
	}
	return s.repo.GetMemberByID(ctx, memberID)
}

// UpdateMemberRole changes a member's role. Only the owner may do this and
// the owner's own role cannot change.
func (s *Service) UpdateMemberRole(ctx context.Context, roomID, actorID, memberID string, role MemberRole) (*Member, error) {
	if role != MemberRoleAdmin && role != MemberRoleMember {
		return nil, ErrInvalidRole
	}

	actor, err := s.RequireMember(ctx, roomID, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != MemberRoleOwner {
		return nil, ErrNotAuthorized
	}

	target, err := s.memberInRoom(ctx, roomID, memberID)
	if err != nil {
		return nil, err
	}
	if target.Role == MemberRoleOwner {
		return nil, ErrOwnerImmutable
	}

	if err := s.repo.UpdateMemberRole(ctx, memberID, role); err != nil {
		return nil, err
	}
	return s.repo.GetMemberByID(ctx, memberID)
}

// RemoveMember marks a non-owner membership as left
func (s *Service) RemoveMember(ctx context.Context, roomID, actorID, memberID string) error {
	if _, err := s.RequireAdmin(ctx, roomID, actorID); err != nil {
		return err
	}

	target, err := s.memberInRoom(ctx, roomID, memberID)
	if err != nil {
		return err
	}
	if target.Role == MemberRoleOwner {
		return ErrOwnerImmutable
	}

	return s.repo.UpdateMemberStatus(ctx, memberID, MemberStatusLeft)
}

// Leave marks the caller's membership as left. The last active owner cannot leave.
func (s *Service) Leave(ctx context.Context, roomID, userID string) error {
	member, err := s.repo.GetMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Status == MemberStatusLeft {
		return ErrMemberNotFound
	}

	if member.Role == MemberRoleOwner && member.IsActive() {
		owners, err := s.repo.CountActiveOwners(ctx, roomID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrOwnerCannotLeave
		}
	}

	if err := s.repo.UpdateMemberStatus(ctx, member.ID, MemberStatusLeft); err != nil {
		return err
	}

	slog.Info("member left room", "room_id", roomID, "user_id", userID)
	return nil
}

func (s *Service) memberInRoom(ctx context.Context, roomID, memberID string) (*Member, error) {
	member, err := s.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.RoomID != roomID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *Service) ensureCapacity(ctx context.Context, roomID string) error {
	active, err := s.repo.CountActiveMembers(ctx, roomID)
	if err != nil {
		return err
	}
	if active >= s.maxActiveMembers {
		return ErrRoomFull
	}
	return nil
}
