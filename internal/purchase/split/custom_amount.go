package split

// CustomAmountStrategy takes an explicit cent amount per member. The amounts must
// cover every eligible member and sum to the total.
type CustomAmountStrategy struct{}

func (s *CustomAmountStrategy) Mode() Mode {
	return ModeCustomAmount
}

func (s *CustomAmountStrategy) Validate(totalCents int64, eligible []string, inputs []Input) error {
	_, err := s.validate(totalCents, eligible, inputs)
	return err
}

func (s *CustomAmountStrategy) validate(totalCents int64, eligible []string, inputs []Input) (map[string]int64, error) {
	if totalCents <= 0 {
		return nil, ErrInvalidTotal
	}

	amounts, err := checkInputs(eligible, inputs, KindMissingAmounts, KindIneligibleMembers)
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, v := range amounts {
		sum += v
	}
	if sum != totalCents {
		return nil, &Error{Kind: KindSplitSumMismatch, Actual: sum, Expected: totalCents}
	}
	return amounts, nil
}

func (s *CustomAmountStrategy) Calculate(totalCents int64, eligible []string, inputs []Input) (Allocation, error) {
	amounts, err := s.validate(totalCents, eligible, inputs)
	if err != nil {
		return nil, err
	}

	out := make(Allocation, 0, len(amounts))
	for _, id := range sortedIDs(eligible) {
		out = append(out, Share{MemberID: id, Cents: amounts[id]})
	}
	return out, nil
}

// ComputeCustomAmount validates amounts against eligible and returns them as an allocation.
func ComputeCustomAmount(totalCents int64, eligible []string, amounts []Input) (Allocation, error) {
	return (&CustomAmountStrategy{}).Calculate(totalCents, eligible, amounts)
}
