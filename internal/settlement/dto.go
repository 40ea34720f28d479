package settlement

import (
	"errors"
	"strings"
	"time"

	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/pkg/request"
)

// CreateSettlementRequest represents the request to record a payment
type CreateSettlementRequest struct {
	PayerUserID    string       `json:"payerUserId" validate:"required,uuid"`
	ReceiverUserID string       `json:"receiverUserId" validate:"required,uuid"`
	Amount         money.Amount `json:"amount" swaggertype:"string" example:"25.00" validate:"required"`
	SettledAt      string       `json:"settledAt,omitempty" example:"2024-03-01T12:00:00Z"`
}

// Validate normalizes and checks the request shape
func (r *CreateSettlementRequest) Validate() error {
	r.PayerUserID = strings.ToLower(strings.TrimSpace(r.PayerUserID))
	r.ReceiverUserID = strings.ToLower(strings.TrimSpace(r.ReceiverUserID))

	if !request.ValidUUID(r.PayerUserID) || !request.ValidUUID(r.ReceiverUserID) {
		return errors.New("payerUserId and receiverUserId must be UUIDs")
	}
	if r.PayerUserID == r.ReceiverUserID {
		return ErrCannotSettleSelf
	}
	if r.Amount.IsZero() {
		return errors.New("amount is required")
	}
	if _, err := r.settledAt(time.Now()); err != nil {
		return err
	}
	return nil
}

// settledAt resolves the settlement time; empty means now
func (r *CreateSettlementRequest) settledAt(now time.Time) (time.Time, error) {
	value := strings.TrimSpace(r.SettledAt)
	if value == "" {
		return now.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("settledAt must be an RFC3339 timestamp")
	}
	return t.UTC(), nil
}
