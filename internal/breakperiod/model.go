package breakperiod

import (
	"time"
)

// Mode describes what a break period does to splits
type Mode string

// ModeExclude removes the member from splits of purchases dated inside the period
const ModeExclude Mode = "exclude"

// DateLayout is the calendar date format used for break periods and purchase dates
const DateLayout = "2006-01-02"

// BreakPeriod is a closed date range during which a member is away
type BreakPeriod struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"roomId"`
	UserID          string    `json:"userId"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	Mode            Mode      `json:"mode"`
	CreatedByUserID string    `json:"createdByUserId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Covers reports whether date falls inside the period, both ends inclusive
func (b *BreakPeriod) Covers(date string) bool {
	return b.StartDate <= date && date <= b.EndDate
}
