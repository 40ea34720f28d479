package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/mealsplit/internal/money"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
}

// Service handles notification business logic
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create stores a notification for recipientID
func (s *Service) Create(ctx context.Context, recipientID, message string, entityType EntityType, entityID string) (*Notification, error) {
	n := &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Message:     message,
	}
	if entityType != "" {
		n.RelatedEntityType = &entityType
	}
	if entityID != "" {
		n.RelatedEntityID = &entityID
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListByRecipientID retrieves a page of a user's notifications
func (s *Service) ListByRecipientID(ctx context.Context, recipientID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	return s.repo.ListByRecipientID(ctx, recipientID, limit, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// NotifyAddedToRoom tells a user they were added to a room
func (s *Service) NotifyAddedToRoom(ctx context.Context, recipientID, roomName, roomID string) (*Notification, error) {
	return s.Create(ctx, recipientID, "You were added to room: "+roomName, EntityRoom, roomID)
}

// NotifyPurchaseAdded tells a split member their share of a new purchase
func (s *Service) NotifyPurchaseAdded(ctx context.Context, recipientID, payerName string, shareCents int64, currency, purchaseID string) (*Notification, error) {
	message := fmt.Sprintf("%s added a purchase, your share is %s %s", payerName, money.Format(shareCents), currency)
	return s.Create(ctx, recipientID, message, EntityPurchase, purchaseID)
}

// NotifySettlementReceived tells the receiver that a payment to them was recorded
func (s *Service) NotifySettlementReceived(ctx context.Context, recipientID, payerName string, amountCents int64, currency, settlementID string) (*Notification, error) {
	message := fmt.Sprintf("%s paid you %s %s", payerName, money.Format(amountCents), currency)
	return s.Create(ctx, recipientID, message, EntitySettlement, settlementID)
}
