package ledger

// SuggestedTransfer is a payment that would move money from a debtor to a creditor
type SuggestedTransfer struct {
	FromMemberID string `json:"fromUserId"`
	ToMemberID   string `json:"toUserId"`
	AmountCents  int64  `json:"amountCents"`
}

type position struct {
	memberID string
	amount   int64
}

// PlanTransfers matches debtors to creditors greedily, walking both lists in
// input order. Each step moves min(debt, credit) and advances whichever side
// reached zero (possibly both). The result zeroes every balance when the
// inputs sum to zero; it is not guaranteed to use the fewest transfers.
func PlanTransfers(balances []NetBalance) []SuggestedTransfer {
	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetCents > 0:
			creditors = append(creditors, position{memberID: b.MemberID, amount: b.NetCents})
		case b.NetCents < 0:
			debtors = append(debtors, position{memberID: b.MemberID, amount: -b.NetCents})
		}
	}

	transfers := []SuggestedTransfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := min(debtor.amount, creditor.amount)
		if amount > 0 {
			transfers = append(transfers, SuggestedTransfer{
				FromMemberID: debtor.memberID,
				ToMemberID:   creditor.memberID,
				AmountCents:  amount,
			})
			debtor.amount -= amount
			creditor.amount -= amount
		}

		if debtor.amount == 0 {
			i++
		}
		if creditor.amount == 0 {
			j++
		}
	}

	return transfers
}

// Apply returns the balances after every transfer is paid. A transfer is a
// settlement from debtor to creditor, so it follows the settlement rule.
func Apply(balances []NetBalance, transfers []SuggestedTransfer) []NetBalance {
	out := make([]NetBalance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.MemberID] = i
	}
	for _, t := range transfers {
		if i, ok := index[t.FromMemberID]; ok {
			out[i].NetCents += t.AmountCents
		}
		if i, ok := index[t.ToMemberID]; ok {
			out[i].NetCents -= t.AmountCents
		}
	}
	return out
}
