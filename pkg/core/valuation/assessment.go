package valuation

// Rating is the qualitative grade of a single metric.
type Rating string

const (
	RatingStrong     Rating = "strong"
	RatingAcceptable Rating = "acceptable"
	RatingWeak       Rating = "weak"
	RatingNoDebt     Rating = "no debt"
)

// Assessment thresholds (fractions for IRR, ratio for DSCR).
const (
	ProjectIRRStrong     = 0.08
	ProjectIRRAcceptable = 0.06
	EquityIRRStrong      = 0.12
	EquityIRRAcceptable  = 0.10
	DSCRStrong           = 1.35
	DSCRAcceptable       = 1.20
)

// Verdict summarizes how many metrics are strong.
type Verdict string

const (
	VerdictRecommend   Verdict = "recommend"
	VerdictAcceptable  Verdict = "acceptable"
	VerdictBelowTarget Verdict = "below_target"
)

// Assessment is the deterministic qualitative read of the key metrics.
type Assessment struct {
	ProjectIRR     Rating  `json:"project_irr"`
	EquityIRR      Rating  `json:"equity_irr"`
	DSCR           Rating  `json:"dscr"`
	StrongCount    int     `json:"strong_count"`
	Verdict        Verdict `json:"verdict"`
	Recommendation string  `json:"recommendation"`
}

// Assess grades project IRR, equity IRR and minimum DSCR.
func Assess(projectIRR, equityIRR float64, minDSCR *float64) Assessment {
	a := Assessment{
		ProjectIRR: grade(projectIRR, ProjectIRRStrong, ProjectIRRAcceptable),
		EquityIRR:  grade(equityIRR, EquityIRRStrong, EquityIRRAcceptable),
		DSCR:       RatingNoDebt,
	}
	if minDSCR != nil {
		a.DSCR = grade(*minDSCR, DSCRStrong, DSCRAcceptable)
	}

	for _, r := range []Rating{a.ProjectIRR, a.EquityIRR, a.DSCR} {
		if r == RatingStrong {
			a.StrongCount++
		}
	}

	switch {
	case a.StrongCount == 3:
		a.Verdict = VerdictRecommend
		a.Recommendation = "All key metrics meet strong thresholds. The project is recommended for investment."
	case a.StrongCount == 2:
		a.Verdict = VerdictAcceptable
		a.Recommendation = "The project is acceptable, with room to optimize the weaker metric."
	default:
		a.Verdict = VerdictBelowTarget
		a.Recommendation = "Key metrics are below target. Revisit costs, tariff or financing before committing."
	}
	return a
}

func grade(v, strong, acceptable float64) Rating {
	switch {
	case v >= strong:
		return RatingStrong
	case v >= acceptable:
		return RatingAcceptable
	default:
		return RatingWeak
	}
}
