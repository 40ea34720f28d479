package breakperiod

import (
	"errors"
	"strings"

	"github.com/fkhayef/mealsplit/pkg/request"
)

// CreateBreakPeriodRequest represents the request to record a member's absence
type CreateBreakPeriodRequest struct {
	UserID    string `json:"userId,omitempty" validate:"omitempty,uuid"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Mode      Mode   `json:"mode,omitempty" validate:"omitempty,oneof=exclude"`
}

// Validate normalizes and checks the request. An empty UserID means the caller.
func (r *CreateBreakPeriodRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)

	if r.UserID != "" && !request.ValidUUID(r.UserID) {
		return errors.New("userId must be a UUID")
	}
	if !ValidDate(r.StartDate) || !ValidDate(r.EndDate) {
		return errors.New("startDate and endDate must be dates in YYYY-MM-DD format")
	}
	if r.StartDate > r.EndDate {
		return ErrInvalidRange
	}
	if r.Mode == "" {
		r.Mode = ModeExclude
	}
	if r.Mode != ModeExclude {
		return errors.New("mode must be exclude")
	}
	return nil
}
