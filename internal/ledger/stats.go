package ledger

import "time"

// StatsWindow is the trailing window reported in Stats.Last30Days
const StatsWindow = 30 * 24 * time.Hour

// WindowStats covers purchases inside the trailing window
type WindowStats struct {
	PurchasesCount  int   `json:"purchasesCount"`
	TotalPaidCents  int64 `json:"totalPaidCents"`
	TotalShareCents int64 `json:"totalShareCents"`
}

// Stats is a per-user rollup across every room the user belongs to
type Stats struct {
	PurchasesCount  int         `json:"purchasesCount"`
	TotalPaidCents  int64       `json:"totalPaidCents"`
	TotalShareCents int64       `json:"totalShareCents"`
	NetCents        int64       `json:"netCents"`
	Last30Days      WindowStats `json:"last30Days"`
}

// ComputeStats rolls up userID's activity. PurchasesCount and TotalPaidCents
// cover purchases the user paid for; TotalShareCents covers the user's split
// rows. NetCents follows the Aggregate convention: paid - share + settlements
// paid - settlements received. Last30Days keeps purchases with
// PurchasedAt >= now-30d; shares are attributed to the date of their purchase.
func ComputeStats(userID string, purchases []Purchase, shares []Share, settlements []Settlement, now time.Time) Stats {
	cutoff := now.Add(-StatsWindow)
	var stats Stats

	recent := make(map[string]bool, len(purchases))
	for _, p := range purchases {
		inWindow := !p.PurchasedAt.Before(cutoff)
		recent[p.ID] = inWindow

		if p.PayerID != userID {
			continue
		}
		stats.PurchasesCount++
		stats.TotalPaidCents += p.TotalCents
		if inWindow {
			stats.Last30Days.PurchasesCount++
			stats.Last30Days.TotalPaidCents += p.TotalCents
		}
	}

	for _, s := range shares {
		if s.MemberID != userID {
			continue
		}
		stats.TotalShareCents += s.Cents
		if recent[s.PurchaseID] {
			stats.Last30Days.TotalShareCents += s.Cents
		}
	}

	stats.NetCents = stats.TotalPaidCents - stats.TotalShareCents
	for _, s := range settlements {
		if s.PayerID == userID {
			stats.NetCents += s.AmountCents
		}
		if s.ReceiverID == userID {
			stats.NetCents -= s.AmountCents
		}
	}

	return stats
}
