package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/mealsplit/internal/ledger"
	"github.com/fkhayef/mealsplit/internal/metrics"
	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/notification"
	"github.com/fkhayef/mealsplit/internal/room"
)

var (
	ErrCannotSettleSelf = errors.New("payer and receiver must be different users")
	ErrPartyNotActive   = errors.New("payer and receiver must both be active members")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, s *Settlement) error
	ListByRoom(ctx context.Context, roomID string) ([]*Settlement, error)
	UserLedger(ctx context.Context, userID string) ([]ledger.Settlement, error)
}

// RoomAccess is the room lookup the service needs; *room.Service satisfies it
type RoomAccess interface {
	RequireMember(ctx context.Context, roomID, userID string) (*room.Member, error)
	GetRoom(ctx context.Context, roomID string) (*room.Room, error)
	ListMembers(ctx context.Context, roomID string) ([]*room.Member, error)
}

// PurchaseLedger loads a room's purchases and splits; *purchase.Repository satisfies it
type PurchaseLedger interface {
	RoomLedger(ctx context.Context, roomID string) ([]ledger.Purchase, []ledger.Share, error)
}

// Notifier tells the receiver about a recorded payment
type Notifier interface {
	NotifySettlementReceived(ctx context.Context, recipientID, payerName string, amountCents int64, currency, settlementID string) (*notification.Notification, error)
}

// Service handles settlements and room balances
type Service struct {
	repo      Store
	rooms     RoomAccess
	purchases PurchaseLedger
	notifier  Notifier
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a new settlement service. notifier and m may be nil.
func NewService(repo Store, rooms RoomAccess, purchases PurchaseLedger, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		rooms:     rooms,
		purchases: purchases,
		notifier:  notifier,
		metrics:   m,
		now:       time.Now,
	}
}

// Create records a payment between two active members of the room. Any
// member with access may record it.
func (s *Service) Create(ctx context.Context, roomID, actorID string, req *CreateSettlementRequest) (*Settlement, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, err
	}
	if req.PayerUserID == req.ReceiverUserID {
		return nil, ErrCannotSettleSelf
	}

	amountCents, err := req.Amount.Cents()
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero: %w", money.ErrInvalidAmount)
	}
	settledAt, err := req.settledAt(s.now())
	if err != nil {
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
	payer := findMember(members, req.PayerUserID)
	receiver := findMember(members, req.ReceiverUserID)
	if payer == nil || receiver == nil || !payer.IsActive() || !receiver.IsActive() {
		return nil, ErrPartyNotActive
	}

	settlement := &Settlement{
		ID:              uuid.NewString(),
		RoomID:          roomID,
		PayerUserID:     req.PayerUserID,
		ReceiverUserID:  req.ReceiverUserID,
		AmountCents:     amountCents,
		SettledAt:       settledAt,
		CreatedByUserID: actorID,
	}
	if err := s.repo.Create(ctx, settlement); err != nil {
		return nil, err
	}
	s.metrics.SettlementRecorded()

	slog.Info("settlement recorded",
		"settlement_id", settlement.ID,
		"room_id", roomID,
		"amount_cents", amountCents,
	)

	if s.notifier != nil {
		_, err := s.notifier.NotifySettlementReceived(ctx, receiver.UserID, payer.DisplayName, amountCents, rm.Currency, settlement.ID)
		if err != nil {
			slog.Warn("failed to notify settlement receiver", "error", err, "settlement_id", settlement.ID)
		}
	}

	return settlement, nil
}

// List retrieves the room's settlements
func (s *Service) List(ctx context.Context, roomID, actorID string) ([]*Settlement, error) {
	if _, err := s.rooms.RequireMember(ctx, roomID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListByRoom(ctx, roomID)
}

// Balances recomputes the room ledger from its purchases, splits and
// settlements and suggests transfers that bring every balance to zero.
func (s *Service) Balances(ctx context.Context, roomID, actorID string) (*Balances, error) {
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
	purchases, shares, err := s.purchases.RoomLedger(ctx, roomID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ledgerMembers := make([]ledger.Member, len(members))
	for i, m := range members {
		ledgerMembers[i] = ledger.Member{ID: m.UserID, Active: m.IsActive()}
	}
	rows := ledger.Aggregate(purchases, shares, ToLedger(settlements), ledgerMembers)

	view := make([]MemberBalance, len(rows))
	for i, row := range rows {
		view[i] = MemberBalance{
			UserID:     row.MemberID,
			PaidCents:  row.PaidCents,
			ShareCents: row.ShareCents,
			NetCents:   row.NetCents,
		}
		if m := findMember(members, row.MemberID); m != nil {
			view[i].DisplayName = m.DisplayName
			view[i].Status = m.Status
		}
	}

	return &Balances{
		Currency:           rm.Currency,
		Members:            view,
		Settlements:        settlements,
		SuggestedTransfers: ledger.PlanTransfers(ledger.NetBalances(rows)),
	}, nil
}

// UserSettlements loads every settlement the user paid or received, in ledger form
func (s *Service) UserSettlements(ctx context.Context, userID string) ([]ledger.Settlement, error) {
	return s.repo.UserLedger(ctx, userID)
}

func findMember(members []*room.Member, userID string) *room.Member {
	for _, m := range members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}
