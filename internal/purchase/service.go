package purchase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/mealsplit/internal/breakperiod"
	"github.com/fkhayef/mealsplit/internal/metrics"
	"github.com/fkhayef/mealsplit/internal/notification"
	"github.com/fkhayef/mealsplit/internal/purchase/split"
	"github.com/fkhayef/mealsplit/internal/room"
)

var (
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrPayerNotActive   = errors.New("payer must be an active member of the room")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, ws *WriteSet) error
	GetByID(ctx context.Context, id string) (*Purchase, error)
	ListByRoom(ctx context.Context, roomID string, limit, offset int) ([]*Purchase, int, error)
	ListSplits(ctx context.Context, purchaseID string) ([]*Split, error)
	ListSplitInputs(ctx context.Context, purchaseID string) ([]*SplitInput, error)
}

// RoomAccess is the room lookup the service needs; *room.Service satisfies it
type RoomAccess interface {
	RequireMember(ctx context.Context, roomID, userID string) (*room.Member, error)
	GetRoom(ctx context.Context, roomID string) (*room.Room, error)
	ListMembers(ctx context.Context, roomID string) ([]*room.Member, error)
}

// BreakPeriods returns the periods covering a date; *breakperiod.Service satisfies it
type BreakPeriods interface {
	Covering(ctx context.Context, roomID, date string) ([]*breakperiod.BreakPeriod, error)
}

// Notifier tells split members about a new purchase
type Notifier interface {
	NotifyPurchaseAdded(ctx context.Context, recipientID, payerName string, shareCents int64, currency, purchaseID string) (*notification.Notification, error)
}

// Service handles purchase business logic
type Service struct {
	repo         Store
	rooms        RoomAccess
	breaks       BreakPeriods
	notifier     Notifier
	metrics      *metrics.Metrics
	splitFactory *split.Factory
	now          func() time.Time
}

// NewService creates a new purchase service. notifier and m may be nil.
func NewService(repo Store, rooms RoomAccess, breaks BreakPeriods, notifier Notifier, m *metrics.Metrics, splitFactory *split.Factory) *Service {
	return &Service{
		repo:         repo,
		rooms:        rooms,
		breaks:       breaks,
		notifier:     notifier,
		metrics:      m,
		splitFactory: splitFactory,
		now:          time.Now,
	}
}

// Create records a purchase. All validation happens in Plan before anything
// is written; the purchase and its splits are then committed atomically.
func (s *Service) Create(ctx context.Context, roomID, actorID string, req *CreatePurchaseRequest) (*PurchaseWithSplits, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, err
	}

	rm, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	members, err := s.rooms.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	purchasedAt, err := req.purchasedAt(now)
	if err != nil {
		return nil, err
	}
	periods, err := s.breaks.Covering(ctx, roomID, breakperiod.DateOf(purchasedAt))
	if err != nil {
		return nil, err
	}

	var activeIDs []string
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
		if m.IsActive() {
			activeIDs = append(activeIDs, m.UserID)
		}
	}

	ws, err := Plan(s.splitFactory, req, PlanParams{
		RoomID:          roomID,
		Currency:        rm.Currency,
		ActorID:         actorID,
		ActiveMemberIDs: activeIDs,
		BreakPeriods:    periods,
		Now:             now,
		NewID:           uuid.NewString,
	})
	if err != nil {
		if splitErr, ok := split.AsError(err); ok {
			s.metrics.SplitRejected(string(splitErr.Kind))
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, ws); err != nil {
		return nil, err
	}
	s.metrics.PurchaseCreated(string(ws.Purchase.SplitMode))

	slog.Info("purchase created",
		"purchase_id", ws.Purchase.ID,
		"room_id", roomID,
		"split_mode", ws.Purchase.SplitMode,
		"total_cents", ws.Purchase.TotalCents,
		"members", len(ws.Splits),
	)

	s.notifySplitMembers(ctx, ws, names[ws.Purchase.PayerUserID])

	return &PurchaseWithSplits{Purchase: ws.Purchase, Splits: ws.Splits, SplitInputs: ws.Inputs}, nil
}

// notifySplitMembers tells every non-payer member with a non-zero share.
// Failures are logged; the purchase is already committed.
func (s *Service) notifySplitMembers(ctx context.Context, ws *WriteSet, payerName string) {
	if s.notifier == nil {
		return
	}
	for _, sp := range ws.Splits {
		if sp.UserID == ws.Purchase.PayerUserID || sp.ShareCents == 0 {
			continue
		}
		_, err := s.notifier.NotifyPurchaseAdded(ctx, sp.UserID, payerName, sp.ShareCents, ws.Purchase.Currency, ws.Purchase.ID)
		if err != nil {
			slog.Warn("failed to notify split member", "error", err, "purchase_id", ws.Purchase.ID, "user_id", sp.UserID)
		}
	}
}

// Get retrieves a purchase of the room with its splits
func (s *Service) Get(ctx context.Context, roomID, actorID, purchaseID string) (*PurchaseWithSplits, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.RoomID != roomID {
		return nil, ErrPurchaseNotFound
	}

	splits, err := s.repo.ListSplits(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	inputs, err := s.repo.ListSplitInputs(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return &PurchaseWithSplits{Purchase: p, Splits: splits, SplitInputs: inputs}, nil
}

// List retrieves a page of the room's purchases
func (s *Service) List(ctx context.Context, roomID, actorID string, limit, offset int) ([]*Purchase, int, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByRoom(ctx, roomID, limit, offset)
}
