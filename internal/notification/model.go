package notification

import "time"

// Notification is a message addressed to one user
type Notification struct {
	ID                string      `json:"id"`
	RecipientID       string      `json:"recipientId"`
	Message           string      `json:"message"`
	IsRead            bool        `json:"isRead"`
	RelatedEntityType *EntityType `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *string     `json:"relatedEntityId,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// EntityType names what a notification points at
type EntityType string

const (
	EntityRoom       EntityType = "ROOM"
	EntityPurchase   EntityType = "PURCHASE"
	EntitySettlement EntityType = "SETTLEMENT"
)

// UnreadCount is the body of the unread-count endpoint
type UnreadCount struct {
	UnreadCount int `json:"unreadCount"`
}
