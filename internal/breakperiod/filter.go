package breakperiod

import "time"

// EligibleMembers returns the active member ids that take part in a purchase
// dated purchaseDate. A member is dropped when any of their exclude periods
// covers the date. Dates are YYYY-MM-DD so string comparison is calendar order.
// The input order of activeIDs is preserved.
func EligibleMembers(activeIDs []string, periods []*BreakPeriod, purchaseDate string) []string {
	excluded := make(map[string]struct{})
	for _, p := range periods {
		if p.Mode != ModeExclude {
			continue
		}
		if p.Covers(purchaseDate) {
			excluded[p.UserID] = struct{}{}
		}
	}

	eligible := make([]string, 0, len(activeIDs))
	for _, id := range activeIDs {
		if _, skip := excluded[id]; skip {
			continue
		}
		eligible = append(eligible, id)
	}
	return eligible
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateOf returns the UTC calendar date of t
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
