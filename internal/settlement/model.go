package settlement

import (
	"time"

	"github.com/fkhayef/mealsplit/internal/ledger"
	"github.com/fkhayef/mealsplit/internal/room"
)

// Settlement is a recorded real-world payment between two room members.
// Settlements are append-only.
type Settlement struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"roomId"`
	PayerUserID     string    `json:"payerUserId"`
	ReceiverUserID  string    `json:"receiverUserId"`
	AmountCents     int64     `json:"amountCents"`
	SettledAt       time.Time `json:"settledAt"`
	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// MemberBalance is a ledger balance row with the member's name and status
type MemberBalance struct {
	UserID      string            `json:"userId"`
	DisplayName string            `json:"displayName"`
	Status      room.MemberStatus `json:"status,omitempty"`
	PaidCents   int64             `json:"paidCents"`
	ShareCents  int64             `json:"shareCents"`
	NetCents    int64             `json:"netCents"`
}

// Balances is the room ledger as served to clients
type Balances struct {
	Currency           string                     `json:"currency"`
	Members            []MemberBalance            `json:"members"`
	Settlements        []*Settlement              `json:"settlements"`
	SuggestedTransfers []ledger.SuggestedTransfer `json:"suggestedTransfers"`
}
