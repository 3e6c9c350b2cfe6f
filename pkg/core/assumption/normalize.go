package assumption

import (
	"fmt"
	"math"
)

// ValidationError names the input field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Normalize validates the entered inputs and resolves both cost
// representations into per-MW rates. The argument is never modified.
func Normalize(in ModelInputs) (CanonicalInputs, error) {
	if err := validate(in); err != nil {
		return CanonicalInputs{}, err
	}

	capex := in.CapexBasis()
	capexPerMW := capex.PerMW(in.CapacityMW)
	if !positive(capexPerMW) {
		return CanonicalInputs{}, invalid(costField(capex, "capex_per_mw", "capex_items"), "must resolve to a positive per-MW rate")
	}

	opex := in.OpexBasis()
	opexPerMW := opex.PerMW(in.CapacityMW)
	if !positive(opexPerMW) {
		return CanonicalInputs{}, invalid(costField(opex, "opex_per_mw_year", "opex_items"), "must resolve to a positive per-MW rate")
	}

	return CanonicalInputs{
		CapacityMW:      in.CapacityMW,
		P50YieldMWh:     in.P50YieldMWh,
		DegradationRate: in.DegradationRate,
		LifetimeYears:   in.LifetimeYears,
		PPAPrice:        in.PPAPrice,
		PPAEscalation:   in.PPAEscalation,
		CapexPerMW:      capexPerMW,
		OpexPerMWYear:   opexPerMW,
		CapexSource:     capex.Kind(),
		OpexSource:      opex.Kind(),
		GearingRatio:    in.GearingRatio,
		InterestRate:    in.InterestRate,
		DebtTenorYears:  in.DebtTenorYears,
		TargetDSCR:      in.TargetDSCR,
		TaxRate:         in.TaxRate,
		DiscountRate:    in.DiscountRate,
		OpexEscalation:  in.OpexEscalation,
		normalized:      true,
	}, nil
}

func validate(in ModelInputs) error {
	// Technical
	if !positive(in.CapacityMW) {
		return invalid("capacity_mw", "must be > 0")
	}
	if !positive(in.P50YieldMWh) {
		return invalid("p50_yield_mwh", "must be > 0")
	}
	if !finite(in.DegradationRate) || in.DegradationRate < 0 || in.DegradationRate >= 1 {
		return invalid("degradation_rate", "must be in [0, 1)")
	}
	if in.LifetimeYears < 1 {
		return invalid("lifetime_years", "must be >= 1")
	}

	// Revenue
	if !finite(in.PPAPrice) || in.PPAPrice < 0 {
		return invalid("ppa_price", "must be >= 0")
	}
	if !rateOK(in.PPAEscalation) {
		return invalid("ppa_escalation", "must be > -1")
	}

	// Financing
	if !finite(in.GearingRatio) || in.GearingRatio < 0 || in.GearingRatio > 1 {
		return invalid("gearing_ratio", "must be in [0, 1]")
	}
	if !rateOK(in.InterestRate) {
		return invalid("interest_rate", "must be > -1")
	}
	if in.DebtTenorYears < 1 || in.DebtTenorYears > in.LifetimeYears {
		return invalid("debt_tenor_years", fmt.Sprintf("must be between 1 and lifetime_years (%d)", in.LifetimeYears))
	}
	if !positive(in.TargetDSCR) {
		return invalid("target_dscr", "must be > 0")
	}

	// Fiscal
	if !finite(in.TaxRate) || in.TaxRate < 0 || in.TaxRate >= 1 {
		return invalid("tax_rate", "must be in [0, 1)")
	}
	if !rateOK(in.DiscountRate) {
		return invalid("discount_rate", "must be > -1")
	}
	if !rateOK(in.OpexEscalation) {
		return invalid("opex_escalation", "must be > -1")
	}

	for i, it := range in.CapexItems {
		if !finite(it.Amount) {
			return invalid(fmt.Sprintf("capex_items[%d].amount", i), "must be a finite number")
		}
		if it.MarginPct != nil && (!finite(*it.MarginPct) || *it.MarginPct <= -100) {
			return invalid(fmt.Sprintf("capex_items[%d].margin_pct", i), "must be > -100")
		}
	}
	for i, it := range in.OpexItems {
		if !finite(it.Amount) {
			return invalid(fmt.Sprintf("opex_items[%d].amount", i), "must be a finite number")
		}
	}
	if !finite(in.GlobalMarginPct) || in.GlobalMarginPct <= -100 {
		return invalid("global_margin_pct", "must be > -100")
	}
	return nil
}

func costField(b CostBasis, direct, itemized string) string {
	if b.Kind() == CostBasisItemized {
		return itemized
	}
	return direct
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }

func rateOK(v float64) bool { return finite(v) && v > -1 }
