package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fkhayef/mealsplit/internal/breakperiod"
	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/purchase/split"
	"github.com/fkhayef/mealsplit/pkg/request"
)

const (
	maxNotesLength    = 500
	maxCategoryLength = 50
)

// SplitInputRequest is a custom split value for one member. Value is a money
// amount for custom_amount and a percentage with at most two decimals for
// custom_percent.
type SplitInputRequest struct {
	UserID string       `json:"userId" validate:"required,uuid"`
	Value  money.Amount `json:"value" swaggertype:"string" example:"12.50"`
}

// CreatePurchaseRequest represents the request to record a purchase
type CreatePurchaseRequest struct {
	TotalAmount money.Amount        `json:"totalAmount" swaggertype:"string" example:"42.10" validate:"required"`
	PayerUserID string              `json:"payerUserId" validate:"required,uuid"`
	PurchasedAt string              `json:"purchasedAt,omitempty" example:"2024-03-01"`
	Notes       *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
	Category    *string             `json:"category,omitempty" validate:"omitempty,max=50"`
	SplitMode   string              `json:"splitMode,omitempty" validate:"omitempty,oneof=equal custom_amount custom_percent"`
	SplitInputs []SplitInputRequest `json:"splitInputs,omitempty"`
}

// Validate normalizes and checks the request shape. Amounts and split values
// are parsed later by Plan.
func (r *CreatePurchaseRequest) Validate() error {
	r.PayerUserID = strings.ToLower(strings.TrimSpace(r.PayerUserID))
	if !request.ValidUUID(r.PayerUserID) {
		return errors.New("payerUserId must be a UUID")
	}
	if r.TotalAmount.IsZero() {
		return errors.New("totalAmount is required")
	}

	r.Notes = trimOptional(r.Notes)
	if r.Notes != nil && utf8.RuneCountInString(*r.Notes) > maxNotesLength {
		return fmt.Errorf("notes must be at most %d characters", maxNotesLength)
	}
	r.Category = trimOptional(r.Category)
	if r.Category != nil && utf8.RuneCountInString(*r.Category) > maxCategoryLength {
		return fmt.Errorf("category must be at most %d characters", maxCategoryLength)
	}

	if r.SplitMode == "" {
		r.SplitMode = string(split.ModeEqual)
	}
	if !split.Mode(r.SplitMode).Valid() {
		return errors.New("splitMode must be one of equal, custom_amount, custom_percent")
	}

	for i := range r.SplitInputs {
		in := &r.SplitInputs[i]
		in.UserID = strings.ToLower(strings.TrimSpace(in.UserID))
		if !request.ValidUUID(in.UserID) {
			return fmt.Errorf("splitInputs[%d].userId must be a UUID", i)
		}
	}

	if _, err := r.purchasedAt(time.Now()); err != nil {
		return err
	}
	return nil
}

// purchasedAt resolves the purchase time. An empty value means now; a bare
// date means midnight UTC of that date.
func (r *CreatePurchaseRequest) purchasedAt(now time.Time) (time.Time, error) {
	value := strings.TrimSpace(r.PurchasedAt)
	if value == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(breakperiod.DateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("purchasedAt must be RFC3339 or YYYY-MM-DD")
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
