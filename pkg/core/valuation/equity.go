package valuation

// EquityCashFlows returns free cash flow to equity for years 1..n:
// CFADS minus debt service inside the tenor, CFADS alone after it.
func EquityCashFlows(cfads []float64, fin FinancingStructure) []float64 {
	out := make([]float64, len(cfads))
	for i, cf := range cfads {
		out[i] = cf - fin.DebtServiceForYear(i+1)
	}
	return out
}

// PaybackPeriod walks a cumulative position starting at -investment and
// returns the fractional year in which it first turns non-negative:
//
//	payback = (prior year) + (−prior cumulative / that year's flow)
//
// nil means the investment is never recovered within the flows given.
func PaybackPeriod(investment float64, flows []float64) *float64 {
	cumulative := -investment
	if cumulative >= 0 {
		zero := 0.0
		return &zero
	}

	for i, cf := range flows {
		prior := cumulative
		cumulative += cf
		if prior < 0 && cumulative >= 0 {
			years := float64(i) + (-prior / cf)
			return &years
		}
	}
	return nil
}
