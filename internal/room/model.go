package room

import "time"

// MemberStatus represents the lifecycle state of a room membership
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusActive   MemberStatus = "active"
	MemberStatusRejected MemberStatus = "rejected"
	MemberStatusLeft     MemberStatus = "left"
)

// Valid reports whether s is a known status
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusRejected, MemberStatusLeft:
		return true
	}
	return false
}

// MemberRole represents the role of a room member
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// DefaultCurrency is used when a room is created without one
const DefaultCurrency = "USD"

// Room is a shared household whose members split purchases
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Currency    string    `json:"currency"`
	OwnerUserID string    `json:"ownerUserId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member represents a user's membership in a room
type Member struct {
	ID        string       `json:"id"`
	RoomID    string       `json:"roomId"`
	UserID    string       `json:"userId"`
	Role      MemberRole   `json:"role"`
	Status    MemberStatus `json:"status"`
	JoinedAt  *time.Time   `json:"joinedAt,omitempty"`
	LeftAt    *time.Time   `json:"leftAt,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`

	// Populated from JOIN
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// IsActive reports whether the member takes part in splits and balances
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// HasAccess reports whether the member may read room data
func (m *Member) HasAccess() bool {
	return m.Status != MemberStatusLeft && m.Status != MemberStatusRejected
}

// IsAdmin reports whether the member may manage the room
func (m *Member) IsAdmin() bool {
	return m.HasAccess() && (m.Role == MemberRoleOwner || m.Role == MemberRoleAdmin)
}

// Summary is a room as seen from one member's room list
type Summary struct {
	Room
	MembershipStatus MemberStatus `json:"membershipStatus"`
	MembershipRole   MemberRole   `json:"membershipRole"`
}
