package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/mealsplit/internal/ledger"
	"github.com/fkhayef/mealsplit/internal/metrics"
	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/notification"
	"github.com/fkhayef/mealsplit/internal/room"
)

const (
	roomID  = "6f1c1b8e-3a0e-4a57-9a8f-0f8a2f6c1d01"
	aliceID = "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8a01"
	bobID   = "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8a02"
	carolID = "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8a03"
	eveID   = "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8a05"
)

type memoryStore struct {
	settlements []*Settlement
}

func (m *memoryStore) Create(_ context.Context, s *Settlement) error {
	s.CreatedAt = time.Now()
	m.settlements = append(m.settlements, s)
	return nil
}

func (m *memoryStore) ListByRoom(_ context.Context, rid string) ([]*Settlement, error) {
	out := []*Settlement{}
	for _, s := range m.settlements {
		if s.RoomID == rid {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) UserLedger(_ context.Context, userID string) ([]ledger.Settlement, error) {
	var mine []*Settlement
	for _, s := range m.settlements {
		if s.PayerUserID == userID || s.ReceiverUserID == userID {
			mine = append(mine, s)
		}
	}
	return ToLedger(mine), nil
}

type fakeRooms struct {
	members []*room.Member
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{members: []*room.Member{
		{UserID: aliceID, DisplayName: "Alice", Role: room.MemberRoleOwner, Status: room.MemberStatusActive},
		{UserID: bobID, DisplayName: "Bob", Role: room.MemberRoleMember, Status: room.MemberStatusActive},
		{UserID: carolID, DisplayName: "Carol", Role: room.MemberRoleMember, Status: room.MemberStatusActive},
		{UserID: eveID, DisplayName: "Eve", Role: room.MemberRoleMember, Status: room.MemberStatusLeft},
	}}
}

func (f *fakeRooms) RequireMember(_ context.Context, rid, userID string) (*room.Member, error) {
	if m := findMember(f.members, userID); m != nil && rid == roomID && m.HasAccess() {
		return m, nil
	}
	return nil, room.ErrNotRoomMember
}

func (f *fakeRooms) GetRoom(_ context.Context, _ string) (*room.Room, error) {
	return &room.Room{ID: roomID, Currency: "USD"}, nil
}

func (f *fakeRooms) ListMembers(_ context.Context, _ string) ([]*room.Member, error) {
	return f.members, nil
}

type fakePurchases struct {
	purchases []ledger.Purchase
	shares    []ledger.Share
}

func (f *fakePurchases) RoomLedger(_ context.Context, _ string) ([]ledger.Purchase, []ledger.Share, error) {
	return f.purchases, f.shares, nil
}

type fakeNotifier struct {
	recipients []string
	messages   []string
}

func (f *fakeNotifier) NotifySettlementReceived(_ context.Context, recipientID, payerName string, amountCents int64, currency, _ string) (*notification.Notification, error) {
	f.recipients = append(f.recipients, recipientID)
	f.messages = append(f.messages, payerName+" "+money.Format(amountCents)+" "+currency)
	return &notification.Notification{}, nil
}

// alice paid 90.00 split three ways; eve (since left) paid 3.00 for herself and bob
func newTestService() (*Service, *memoryStore, *fakeNotifier) {
	store := &memoryStore{}
	notifier := &fakeNotifier{}
	purchases := &fakePurchases{
		purchases: []ledger.Purchase{
			{ID: "p1", PayerID: aliceID, TotalCents: 9000},
			{ID: "p2", PayerID: eveID, TotalCents: 300},
		},
		shares: []ledger.Share{
			{PurchaseID: "p1", MemberID: aliceID, Cents: 3000},
			{PurchaseID: "p1", MemberID: bobID, Cents: 3000},
			{PurchaseID: "p1", MemberID: carolID, Cents: 3000},
			{PurchaseID: "p2", MemberID: eveID, Cents: 150},
			{PurchaseID: "p2", MemberID: bobID, Cents: 150},
		},
	}
	svc := NewService(store, newFakeRooms(), purchases, notifier, metrics.New())
	return svc, store, notifier
}

func createReq(t *testing.T, payer, receiver, amount string) *CreateSettlementRequest {
	t.Helper()
	req := &CreateSettlementRequest{PayerUserID: payer, ReceiverUserID: receiver, Amount: money.NewAmount(amount)}
	require.NoError(t, req.Validate())
	return req
}

func TestService_Balances(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Balances(context.Background(), roomID, bobID)
	require.NoError(t, err)

	assert.Equal(t, "USD", b.Currency)
	require.Len(t, b.Members, 4)
	assert.Equal(t, MemberBalance{UserID: aliceID, DisplayName: "Alice", Status: room.MemberStatusActive, PaidCents: 9000, ShareCents: 3000, NetCents: 6000}, b.Members[0])
	assert.Equal(t, int64(-3150), b.Members[1].NetCents)
	assert.Equal(t, int64(-3000), b.Members[2].NetCents)
	assert.Equal(t, room.MemberStatusLeft, b.Members[3].Status)
	assert.Equal(t, int64(150), b.Members[3].NetCents)

	assert.Equal(t, []ledger.SuggestedTransfer{
		{FromMemberID: bobID, ToMemberID: aliceID, AmountCents: 3150},
		{FromMemberID: carolID, ToMemberID: aliceID, AmountCents: 2850},
		{FromMemberID: carolID, ToMemberID: eveID, AmountCents: 150},
	}, b.SuggestedTransfers)
	assert.Empty(t, b.Settlements)
}

func TestService_SettlementMovesBalances(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService()

	s, err := svc.Create(ctx, roomID, carolID, createReq(t, bobID, aliceID, "31.50"))
	require.NoError(t, err)
	assert.Equal(t, int64(3150), s.AmountCents)
	assert.Equal(t, carolID, s.CreatedByUserID)
	assert.Equal(t, []string{aliceID}, notifier.recipients)
	assert.Equal(t, []string{"Bob 31.50 USD"}, notifier.messages)

	b, err := svc.Balances(ctx, roomID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, int64(2850), b.Members[0].NetCents)
	assert.Zero(t, b.Members[1].NetCents)
	require.Len(t, b.Settlements, 1)

	var sum int64
	for _, m := range b.Members {
		sum += m.NetCents
	}
	assert.Zero(t, sum)
}

func TestService_Create_Errors(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, roomID, aliceID, createReq(t, bobID, eveID, "1"))
	assert.ErrorIs(t, err, ErrPartyNotActive)

	_, err = svc.Create(ctx, roomID, aliceID, createReq(t, bobID, "0b6f2b2e-7f7e-4c2a-8f2c-5a1d9f3e8aff", "1"))
	assert.ErrorIs(t, err, ErrPartyNotActive)

	_, err = svc.Create(ctx, roomID, aliceID, createReq(t, bobID, aliceID, "0.00"))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = svc.Create(ctx, roomID, eveID, createReq(t, bobID, aliceID, "1"))
	assert.ErrorIs(t, err, room.ErrNotRoomMember)

	assert.Empty(t, store.settlements)
}

func TestCreateSettlementRequest_Validate(t *testing.T) {
	req := &CreateSettlementRequest{PayerUserID: aliceID, ReceiverUserID: aliceID, Amount: money.NewAmount("1")}
	assert.ErrorIs(t, req.Validate(), ErrCannotSettleSelf)

	req = &CreateSettlementRequest{PayerUserID: aliceID, ReceiverUserID: bobID}
	assert.Error(t, req.Validate())

	req = &CreateSettlementRequest{PayerUserID: aliceID, ReceiverUserID: bobID, Amount: money.NewAmount("1"), SettledAt: "yesterday"}
	assert.Error(t, req.Validate())

	req = &CreateSettlementRequest{PayerUserID: aliceID, ReceiverUserID: bobID, Amount: money.NewAmount("1"), SettledAt: "2024-03-01T10:00:00+02:00"}
	require.NoError(t, req.Validate())
	at, err := req.settledAt(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), at)
}

func TestService_UserSettlements(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, roomID, aliceID, createReq(t, bobID, aliceID, "5"))
	require.NoError(t, err)

	rows, err := svc.UserSettlements(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(500), rows[0].AmountCents)
}
