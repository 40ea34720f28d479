package purchase

import (
	"fmt"
	"time"

	"github.com/fkhayef/mealsplit/internal/breakperiod"
	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/purchase/split"
)

// PlanParams is the room state a purchase is planned against
type PlanParams struct {
	RoomID          string
	Currency        string
	ActorID         string
	ActiveMemberIDs []string
	BreakPeriods    []*breakperiod.BreakPeriod
	Now             time.Time
	NewID           func() string
}

// Plan validates a purchase request against the room and computes every row
// the purchase writes. It does no I/O; a nil error means the WriteSet can be
// committed as is.
func Plan(factory *split.Factory, req *CreatePurchaseRequest, p PlanParams) (*WriteSet, error) {
	totalCents, err := req.TotalAmount.Cents()
	if err != nil {
		return nil, fmt.Errorf("totalAmount: %w", err)
	}
	if totalCents <= 0 {
		return nil, fmt.Errorf("totalAmount must be greater than zero: %w", money.ErrInvalidAmount)
	}

	if !contains(p.ActiveMemberIDs, req.PayerUserID) {
		return nil, ErrPayerNotActive
	}

	purchasedAt, err := req.purchasedAt(p.Now)
	if err != nil {
		return nil, err
	}

	strategy, err := factory.CreateFromString(req.SplitMode)
	if err != nil {
		return nil, err
	}

	inputs, err := parseInputs(strategy.Mode(), req.SplitInputs)
	if err != nil {
		return nil, err
	}

	eligible := breakperiod.EligibleMembers(p.ActiveMemberIDs, p.BreakPeriods, breakperiod.DateOf(purchasedAt))
	allocation, err := strategy.Calculate(totalCents, eligible, inputs)
	if err != nil {
		return nil, err
	}
	if sum := allocation.Sum(); sum != totalCents {
		return nil, fmt.Errorf("split allocation sums to %d, expected %d", sum, totalCents)
	}

	purchase := &Purchase{
		ID:              p.NewID(),
		RoomID:          p.RoomID,
		PayerUserID:     req.PayerUserID,
		TotalCents:      totalCents,
		Currency:        p.Currency,
		PurchasedAt:     purchasedAt,
		SplitMode:       strategy.Mode(),
		Notes:           req.Notes,
		Category:        req.Category,
		CreatedByUserID: p.ActorID,
	}

	ws := &WriteSet{
		Purchase: purchase,
		Splits:   make([]*Split, 0, len(allocation)),
	}
	for _, share := range allocation {
		ws.Splits = append(ws.Splits, &Split{
			ID:         p.NewID(),
			PurchaseID: purchase.ID,
			UserID:     share.MemberID,
			ShareCents: share.Cents,
		})
	}
	for i, in := range inputs {
		ws.Inputs = append(ws.Inputs, &SplitInput{
			ID:         p.NewID(),
			PurchaseID: purchase.ID,
			UserID:     in.MemberID,
			RawValue:   req.SplitInputs[i].Value.String(),
			Value:      in.Value,
		})
	}
	return ws, nil
}

// parseInputs converts request values to cents or basis points. Equal splits
// take no inputs and any given are ignored.
func parseInputs(mode split.Mode, reqs []SplitInputRequest) ([]split.Input, error) {
	if mode == split.ModeEqual {
		return nil, nil
	}

	inputs := make([]split.Input, len(reqs))
	for i, r := range reqs {
		var (
			value int64
			err   error
		)
		if mode == split.ModeCustomPercent {
			value, err = money.ParseBasisPoints(r.Value.String())
		} else {
			value, err = r.Value.Cents()
		}
		if err != nil {
			return nil, fmt.Errorf("splitInputs[%d].value: %w", i, err)
		}
		inputs[i] = split.Input{MemberID: r.UserID, Value: value}
	}
	return inputs, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
