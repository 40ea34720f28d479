package split

// CustomPercentStrategy divides the total by basis points (10000 = 100%).
// Each member gets floor(total*bp/10000); leftover cents go one each to the
// first members in id order.
type CustomPercentStrategy struct{}

func (s *CustomPercentStrategy) Mode() Mode {
	return ModeCustomPercent
}

func (s *CustomPercentStrategy) Validate(totalCents int64, eligible []string, inputs []Input) error {
	_, err := s.validate(totalCents, eligible, inputs)
	return err
}

func (s *CustomPercentStrategy) validate(totalCents int64, eligible []string, inputs []Input) (map[string]int64, error) {
	if totalCents <= 0 {
		return nil, ErrInvalidTotal
	}

	percents, err := checkInputs(eligible, inputs, KindMissingPercents, KindIneligiblePercents)
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, bp := range percents {
		sum += bp
	}
	if sum != BasisPointsTotal {
		return nil, &Error{Kind: KindPercentSumMismatch, Actual: sum, Expected: BasisPointsTotal}
	}
	return percents, nil
}

func (s *CustomPercentStrategy) Calculate(totalCents int64, eligible []string, inputs []Input) (Allocation, error) {
	percents, err := s.validate(totalCents, eligible, inputs)
	if err != nil {
		return nil, err
	}

	sorted := sortedIDs(eligible)
	out := make(Allocation, len(sorted))
	var allocated int64
	for i, id := range sorted {
		cents := floorBasisPoints(totalCents, percents[id])
		out[i] = Share{MemberID: id, Cents: cents}
		allocated += cents
	}

	// each floor drops less than one cent, so remainder < len(sorted)
	remainder := totalCents - allocated
	for i := int64(0); i < remainder; i++ {
		out[i].Cents++
	}
	return out, nil
}

// ComputeCustomPercent validates basis points against eligible and allocates totalCents.
func ComputeCustomPercent(totalCents int64, eligible []string, percents []Input) (Allocation, error) {
	return (&CustomPercentStrategy{}).Calculate(totalCents, eligible, percents)
}

// floorBasisPoints computes floor(total*bp/10000) without overflowing int64.
func floorBasisPoints(total, bp int64) int64 {
	q := total / BasisPointsTotal
	r := total % BasisPointsTotal
	return q*bp + r*bp/BasisPointsTotal
}
