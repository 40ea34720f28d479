package split

import (
	"fmt"
	"sort"
)

// Mode identifies how a purchase total is divided between members
type Mode string

const (
	ModeEqual         Mode = "equal"
	ModeCustomAmount  Mode = "custom_amount"
	ModeCustomPercent Mode = "custom_percent"
)

// Valid reports whether m is a known split mode
func (m Mode) Valid() bool {
	switch m {
	case ModeEqual, ModeCustomAmount, ModeCustomPercent:
		return true
	}
	return false
}

// BasisPointsTotal is 100% expressed in basis points
const BasisPointsTotal int64 = 10000

// Input is a user-supplied value for one member. Value is cents for
// custom_amount and basis points for custom_percent.
type Input struct {
	MemberID string
	Value    int64
}

// Share is the computed portion of a purchase owed by one member
type Share struct {
	MemberID string `json:"memberId"`
	Cents    int64  `json:"cents"`
}

// Allocation is a list of shares ordered by member id
type Allocation []Share

// Sum returns the total of all shares
func (a Allocation) Sum() int64 {
	var total int64
	for _, s := range a {
		total += s.Cents
	}
	return total
}

// Map returns the allocation keyed by member id
func (a Allocation) Map() map[string]int64 {
	m := make(map[string]int64, len(a))
	for _, s := range a {
		m[s.MemberID] = s.Cents
	}
	return m
}

// Strategy is implemented by every split mode
type Strategy interface {
	// Mode returns the identifier for this strategy
	Mode() Mode

	// Validate checks inputs against the eligible member set without computing shares
	Validate(totalCents int64, eligible []string, inputs []Input) error

	// Calculate returns shares summing exactly to totalCents
	Calculate(totalCents int64, eligible []string, inputs []Input) (Allocation, error)
}

// Factory creates split strategies based on the requested mode
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for mode
func (f *Factory) Create(mode Mode) (Strategy, error) {
	switch mode {
	case ModeEqual:
		return &EqualStrategy{}, nil
	case ModeCustomAmount:
		return &CustomAmountStrategy{}, nil
	case ModeCustomPercent:
		return &CustomPercentStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// CreateFromString creates a strategy from a request value. An empty value means equal.
func (f *Factory) CreateFromString(mode string) (Strategy, error) {
	if mode == "" {
		return f.Create(ModeEqual)
	}
	return f.Create(Mode(mode))
}

func sortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// checkInputs runs the shared presence and membership checks for the custom modes.
func checkInputs(eligible []string, inputs []Input, missing, ineligible Kind) (map[string]int64, error) {
	if len(eligible) == 0 {
		return nil, ErrNoEligibleMembers
	}

	values := make(map[string]int64, len(inputs))
	var duplicates []string
	for _, in := range inputs {
		if _, seen := values[in.MemberID]; seen {
			duplicates = append(duplicates, in.MemberID)
			continue
		}
		values[in.MemberID] = in.Value
	}
	if len(duplicates) > 0 {
		return nil, newError(KindDuplicateInput, duplicates)
	}

	eligibleSet := make(map[string]struct{}, len(eligible))
	var absent []string
	for _, id := range eligible {
		eligibleSet[id] = struct{}{}
		if _, ok := values[id]; !ok {
			absent = append(absent, id)
		}
	}
	if len(absent) > 0 {
		return nil, newError(missing, absent)
	}

	var extra []string
	var negative []string
	for id, v := range values {
		if _, ok := eligibleSet[id]; !ok {
			extra = append(extra, id)
		}
		if v < 0 {
			negative = append(negative, id)
		}
	}
	if len(extra) > 0 {
		return nil, newError(ineligible, extra)
	}
	if len(negative) > 0 {
		return nil, newError(KindNegativeValue, negative)
	}

	return values, nil
}
