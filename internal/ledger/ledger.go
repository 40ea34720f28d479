// Package ledger folds purchase, split and settlement records into per-member
// balances and suggests transfers that bring every balance to zero.
//
// Everything here is a pure function over in-memory records. Balances are
// recomputed from scratch on every request; nothing is cached.
package ledger

import (
	"sort"
	"time"
)

// Purchase is the part of a purchase row the ledger needs
type Purchase struct {
	ID          string
	PayerID     string
	TotalCents  int64
	PurchasedAt time.Time
}

// Share is one member's portion of a purchase
type Share struct {
	PurchaseID string
	MemberID   string
	Cents      int64
}

// Settlement is a recorded real-world payment from PayerID to ReceiverID
type Settlement struct {
	PayerID     string
	ReceiverID  string
	AmountCents int64
	SettledAt   time.Time
}

// Member is a room participant. Only active members are guaranteed a balance row.
type Member struct {
	ID     string
	Active bool
}

// MemberBalance is a member's position in the room. NetCents > 0 means the
// room owes the member; NetCents < 0 means the member owes the room.
type MemberBalance struct {
	MemberID   string `json:"userId"`
	Active     bool   `json:"-"`
	PaidCents  int64  `json:"paidCents"`
	ShareCents int64  `json:"shareCents"`
	NetCents   int64  `json:"netCents"`
}

// Aggregate computes paid, share and net per member:
//
//	net = paid - share, then for each settlement net[payer] += amount, net[receiver] -= amount
//
// Every active member appears, zero-filled. Non-active members and ids missing
// from members appear only when they carry activity, so the sum of NetCents
// over the result is always zero. Rows follow the order of members; unknown
// ids come last in id order.
func Aggregate(purchases []Purchase, shares []Share, settlements []Settlement, members []Member) []MemberBalance {
	index := make(map[string]int, len(members))
	rows := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(rows)
		rows = append(rows, MemberBalance{MemberID: m.ID, Active: m.Active})
	}
	known := len(rows)

	row := func(id string) *MemberBalance {
		i, ok := index[id]
		if !ok {
			i = len(rows)
			index[id] = i
			rows = append(rows, MemberBalance{MemberID: id})
		}
		return &rows[i]
	}

	for _, p := range purchases {
		row(p.PayerID).PaidCents += p.TotalCents
	}
	for _, s := range shares {
		row(s.MemberID).ShareCents += s.Cents
	}
	for i := range rows {
		rows[i].NetCents = rows[i].PaidCents - rows[i].ShareCents
	}
	for _, s := range settlements {
		row(s.PayerID).NetCents += s.AmountCents
		row(s.ReceiverID).NetCents -= s.AmountCents
	}

	out := keep(rows[:known])
	// ids found only in the records
	extra := keep(rows[known:])
	sort.Slice(extra, func(i, j int) bool { return extra[i].MemberID < extra[j].MemberID })
	return append(out, extra...)
}

func keep(rows []MemberBalance) []MemberBalance {
	out := make([]MemberBalance, 0, len(rows))
	for _, r := range rows {
		if r.Active || r.PaidCents != 0 || r.ShareCents != 0 || r.NetCents != 0 {
			out = append(out, r)
		}
	}
	return out
}

// NetBalance is a member's net position, the input to PlanTransfers
type NetBalance struct {
	MemberID string
	NetCents int64
}

// NetBalances projects balances to net positions, preserving order
func NetBalances(balances []MemberBalance) []NetBalance {
	out := make([]NetBalance, len(balances))
	for i, b := range balances {
		out[i] = NetBalance{MemberID: b.MemberID, NetCents: b.NetCents}
	}
	return out
}

// SumNet returns the total of all net balances. It is zero for any
// ledger built from balanced purchases and settlements.
func SumNet(balances []MemberBalance) int64 {
	var total int64
	for _, b := range balances {
		total += b.NetCents
	}
	return total
}
