package split

// EqualStrategy divides the total evenly. Members are sorted by id and the
// leftover cents go one each to the first members in that order.
type EqualStrategy struct{}

func (s *EqualStrategy) Mode() Mode {
	return ModeEqual
}

// Validate checks the total and eligible set. Inputs are ignored.
func (s *EqualStrategy) Validate(totalCents int64, eligible []string, _ []Input) error {
	if totalCents <= 0 {
		return ErrInvalidTotal
	}
	if len(eligible) == 0 {
		return ErrNoEligibleMembers
	}
	return nil
}

func (s *EqualStrategy) Calculate(totalCents int64, eligible []string, inputs []Input) (Allocation, error) {
	if err := s.Validate(totalCents, eligible, inputs); err != nil {
		return nil, err
	}
	return ComputeEqual(totalCents, eligible), nil
}

// ComputeEqual splits totalCents over ids. ids must be non-empty and totalCents positive.
func ComputeEqual(totalCents int64, ids []string) Allocation {
	sorted := sortedIDs(ids)
	n := int64(len(sorted))
	base := totalCents / n
	remainder := totalCents % n

	out := make(Allocation, len(sorted))
	for i, id := range sorted {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		out[i] = Share{MemberID: id, Cents: cents}
	}
	return out
}
