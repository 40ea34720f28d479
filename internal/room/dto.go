package room

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// CreateRoomRequest represents the request to create a room
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Currency string `json:"currency,omitempty" validate:"omitempty,max=10"`
}

// Validate normalizes and checks the request
func (r *CreateRoomRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))

	if r.Name == "" || utf8.RuneCountInString(r.Name) > 120 {
		return errors.New("name must be between 1 and 120 characters")
	}
	if len(r.Currency) > 10 {
		return errors.New("currency must be at most 10 characters")
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	return nil
}

// AddMemberRequest represents the request to add a user to a room
type AddMemberRequest struct {
	UserID string     `json:"userId" validate:"required,uuid"`
	Role   MemberRole `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
}

// Validate checks the request
func (r *AddMemberRequest) Validate() error {
	if r.Role == "" {
		r.Role = MemberRoleMember
	}
	if r.Role != MemberRoleAdmin && r.Role != MemberRoleMember {
		return errors.New("role must be admin or member")
	}
	return nil
}

// UpdateMemberStatusRequest represents the request to change a membership status
type UpdateMemberStatusRequest struct {
	Status MemberStatus `json:"status" validate:"required,oneof=pending active rejected left"`
}

// UpdateMemberRoleRequest represents the request to change a member's role
type UpdateMemberRoleRequest struct {
	Role MemberRole `json:"role" validate:"required,oneof=admin member"`
}

// RoomResponse represents a room with its members
type RoomResponse struct {
	Room    *Room     `json:"room"`
	Members []*Member `json:"members"`
}
