package user

import (
	"time"

	"github.com/fkhayef/mealsplit/internal/ledger"
)

// User represents a user in the system
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Stats is the /me/stats payload: the ledger rollup plus room count
type Stats struct {
	ledger.Stats
	RoomsCount int `json:"roomsCount"`
}
