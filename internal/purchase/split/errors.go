package split

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a split validation failure
type Kind string

const (
	KindNoEligibleMembers  Kind = "NoEligibleMembers"
	KindMissingAmounts     Kind = "MissingAmounts"
	KindMissingPercents    Kind = "MissingPercents"
	KindIneligibleMembers  Kind = "IneligibleMembers"
	KindIneligiblePercents Kind = "IneligiblePercents"
	KindSplitSumMismatch   Kind = "SplitSumMismatch"
	KindPercentSumMismatch Kind = "PercentSumMismatch"
	KindDuplicateInput     Kind = "DuplicateInput"
	KindNegativeValue      Kind = "NegativeValue"
	KindInvalidTotal       Kind = "InvalidTotal"
)

// Error is a structured split validation failure. Actual and Expected are
// cents for SplitSumMismatch and basis points for PercentSumMismatch.
type Error struct {
	Kind      Kind     `json:"kind"`
	MemberIDs []string `json:"memberIds,omitempty"`
	Actual    int64    `json:"actual,omitempty"`
	Expected  int64    `json:"expected,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("split: ")
	b.WriteString(string(e.Kind))
	if len(e.MemberIDs) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.MemberIDs, ", "))
		b.WriteString("]")
	}
	switch e.Kind {
	case KindSplitSumMismatch, KindPercentSumMismatch:
		fmt.Fprintf(&b, " (actual %d, expected %d)", e.Actual, e.Expected)
	}
	return b.String()
}

// Is matches any *Error with the same Kind, so errors.Is(err, ErrMissingAmounts) works
// regardless of the member ids carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNoEligibleMembers  = &Error{Kind: KindNoEligibleMembers}
	ErrMissingAmounts     = &Error{Kind: KindMissingAmounts}
	ErrMissingPercents    = &Error{Kind: KindMissingPercents}
	ErrIneligibleMembers  = &Error{Kind: KindIneligibleMembers}
	ErrIneligiblePercents = &Error{Kind: KindIneligiblePercents}
	ErrSplitSumMismatch   = &Error{Kind: KindSplitSumMismatch}
	ErrPercentSumMismatch = &Error{Kind: KindPercentSumMismatch}
	ErrDuplicateInput     = &Error{Kind: KindDuplicateInput}
	ErrNegativeValue      = &Error{Kind: KindNegativeValue}
	ErrInvalidTotal       = &Error{Kind: KindInvalidTotal}

	ErrUnknownMode = errors.New("unknown split mode")
)

func newError(kind Kind, ids []string) *Error {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return &Error{Kind: kind, MemberIDs: sorted}
}

// AsError extracts a *Error from err
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
