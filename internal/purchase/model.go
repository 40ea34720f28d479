package purchase

import (
	"time"

	"github.com/fkhayef/mealsplit/internal/purchase/split"
)

// Purchase is a recorded shared expense. It is immutable once created.
type Purchase struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"roomId"`
	PayerUserID     string     `json:"payerUserId"`
	TotalCents      int64      `json:"totalCents"`
	Currency        string     `json:"currency"`
	PurchasedAt     time.Time  `json:"purchasedAt"`
	SplitMode       split.Mode `json:"splitMode"`
	Notes           *string    `json:"notes,omitempty"`
	Category        *string    `json:"category,omitempty"`
	CreatedByUserID string     `json:"createdByUserId"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Split is one member's computed share of a purchase
type Split struct {
	ID         string `json:"id"`
	PurchaseID string `json:"purchaseId"`
	UserID     string `json:"userId"`
	ShareCents int64  `json:"shareCents"`
}

// SplitInput keeps the value a user entered for a custom split next to its
// parsed form (cents or basis points).
type SplitInput struct {
	ID         string `json:"id"`
	PurchaseID string `json:"purchaseId"`
	UserID     string `json:"userId"`
	RawValue   string `json:"rawValue"`
	Value      int64  `json:"value"`
}

// WriteSet is everything a purchase creation writes. It is built by Plan and
// committed in one transaction.
type WriteSet struct {
	Purchase *Purchase
	Splits   []*Split
	Inputs   []*SplitInput
}

// PurchaseWithSplits combines a purchase with its split rows
type PurchaseWithSplits struct {
	Purchase    *Purchase     `json:"purchase"`
	Splits      []*Split      `json:"splits"`
	SplitInputs []*SplitInput `json:"splitInputs,omitempty"`
}
