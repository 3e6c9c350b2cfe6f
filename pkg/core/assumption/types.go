// Package assumption holds the user-entered inputs of a solar financial model
// and resolves them into the canonical record the engine computes on.
// The editing surface owns ModelInputs; the engine only ever sees CanonicalInputs.
package assumption

// =============================================================================
// COST ITEMS
// =============================================================================

// CostItem is one line of an itemized capital or operating budget.
// MarginPct overrides the model's global margin for this line; it is
// ignored for operating items.
type CostItem struct {
	Name      string   `json:"name" yaml:"name"`
	Amount    float64  `json:"amount" yaml:"amount"`
	MarginPct *float64 `json:"margin_pct,omitempty" yaml:"margin_pct,omitempty"`
}

// =============================================================================
// MODEL INPUTS (as entered)
// =============================================================================

// ModelInputs is the editable record collected by the model screen.
// Rates and ratios are fractions (0.05 == 5%) except GlobalMarginPct and
// CostItem.MarginPct, which are percentages.
type ModelInputs struct {
	// Technical
	CapacityMW      float64 `json:"capacity_mw" yaml:"capacity_mw"`
	P50YieldMWh     float64 `json:"p50_yield_mwh" yaml:"p50_yield_mwh"`
	DegradationRate float64 `json:"degradation_rate" yaml:"degradation_rate"`
	LifetimeYears   int     `json:"lifetime_years" yaml:"lifetime_years"`

	// Revenue
	PPAPrice      float64 `json:"ppa_price" yaml:"ppa_price"` // $/MWh
	PPAEscalation float64 `json:"ppa_escalation" yaml:"ppa_escalation"`

	// Cost: direct per-MW rates...
	CapexPerMW    float64 `json:"capex_per_mw,omitempty" yaml:"capex_per_mw,omitempty"`
	OpexPerMWYear float64 `json:"opex_per_mw_year,omitempty" yaml:"opex_per_mw_year,omitempty"`

	// ...or itemized budgets (take priority when present)
	CapexItems      []CostItem `json:"capex_items,omitempty" yaml:"capex_items,omitempty"`
	OpexItems       []CostItem `json:"opex_items,omitempty" yaml:"opex_items,omitempty"`
	GlobalMarginPct float64    `json:"global_margin_pct,omitempty" yaml:"global_margin_pct,omitempty"`

	// Financing
	GearingRatio   float64 `json:"gearing_ratio" yaml:"gearing_ratio"`
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"`
	DebtTenorYears int     `json:"debt_tenor_years" yaml:"debt_tenor_years"`
	TargetDSCR     float64 `json:"target_dscr" yaml:"target_dscr"`

	// Fiscal
	TaxRate        float64 `json:"tax_rate" yaml:"tax_rate"`
	DiscountRate   float64 `json:"discount_rate" yaml:"discount_rate"`
	OpexEscalation float64 `json:"opex_escalation" yaml:"opex_escalation"`
}

// Clone returns a deep copy, so edits to the copy never reach the original.
func (in ModelInputs) Clone() ModelInputs {
	out := in
	out.CapexItems = cloneItems(in.CapexItems)
	out.OpexItems = cloneItems(in.OpexItems)
	return out
}

func cloneItems(items []CostItem) []CostItem {
	if items == nil {
		return nil
	}
	out := make([]CostItem, len(items))
	for i, it := range items {
		out[i] = it
		if it.MarginPct != nil {
			m := *it.MarginPct
			out[i].MarginPct = &m
		}
	}
	return out
}

// CapexBasis reports which representation the capital cost is given in.
func (in ModelInputs) CapexBasis() CostBasis {
	if len(in.CapexItems) > 0 {
		return ItemizedCosts{Items: in.CapexItems, GlobalMarginPct: in.GlobalMarginPct, ApplyMargin: true}
	}
	return DirectRate{Rate: in.CapexPerMW}
}

// OpexBasis reports which representation the operating cost is given in.
// Operating items never carry a margin.
func (in ModelInputs) OpexBasis() CostBasis {
	if len(in.OpexItems) > 0 {
		return ItemizedCosts{Items: in.OpexItems}
	}
	return DirectRate{Rate: in.OpexPerMWYear}
}

// =============================================================================
// CANONICAL INPUTS (validated, immutable)
// =============================================================================

// CanonicalInputs is the normalized record. Obtain it from Normalize; a zero
// value is rejected by the engine.
type CanonicalInputs struct {
	CapacityMW      float64 `json:"capacity_mw"`
	P50YieldMWh     float64 `json:"p50_yield_mwh"`
	DegradationRate float64 `json:"degradation_rate"`
	LifetimeYears   int     `json:"lifetime_years"`

	PPAPrice      float64 `json:"ppa_price"`
	PPAEscalation float64 `json:"ppa_escalation"`

	CapexPerMW    float64       `json:"capex_per_mw"`
	OpexPerMWYear float64       `json:"opex_per_mw_year"`
	CapexSource   CostBasisKind `json:"capex_source"`
	OpexSource    CostBasisKind `json:"opex_source"`

	GearingRatio   float64 `json:"gearing_ratio"`
	InterestRate   float64 `json:"interest_rate"`
	DebtTenorYears int     `json:"debt_tenor_years"`
	TargetDSCR     float64 `json:"target_dscr"`

	TaxRate        float64 `json:"tax_rate"`
	DiscountRate   float64 `json:"discount_rate"`
	OpexEscalation float64 `json:"opex_escalation"`

	normalized bool
}

// Normalized reports whether c was produced by Normalize.
func (c CanonicalInputs) Normalized() bool { return c.normalized }

// TotalCapex is capacity × per-MW capital rate.
func (c CanonicalInputs) TotalCapex() float64 {
	return c.CapacityMW * c.CapexPerMW
}

// AnnualOpexBase is the year-1 operating cost before escalation.
func (c CanonicalInputs) AnnualOpexBase() float64 {
	return c.CapacityMW * c.OpexPerMWYear
}
