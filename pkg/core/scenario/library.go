package scenario

import "github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"

// Reference returns the 10 MW utility-scale reference project: flat output,
// no escalation, no tax, debt sized at DSCR 1.30 against a 70% gearing cap.
func Reference() Scenario {
	return Scenario{
		ID:          "builtin.reference_10mw",
		Name:        "Reference 10 MW",
		Category:    "builtin",
		Description: "Flat 10 MW utility project, 20-year life, DSCR-sized debt.",
		Inputs: assumption.ModelInputs{
			CapacityMW:     10,
			P50YieldMWh:    20000,
			LifetimeYears:  20,
			PPAPrice:       50,
			CapexPerMW:     1_000_000,
			OpexPerMWYear:  10_000,
			GearingRatio:   0.7,
			InterestRate:   0.05,
			DebtTenorYears: 10,
			TargetDSCR:     1.3,
			DiscountRate:   0.08,
		},
	}
}

// Builtin returns the scenarios every registry starts from.
func Builtin() []Scenario {
	ref := Reference()

	unlevered := Reference()
	unlevered.ID = "builtin.reference_unlevered"
	unlevered.Name = "Reference 10 MW (all equity)"
	unlevered.Description = "Reference project without debt."
	unlevered.Inputs.GearingRatio = 0

	merchant := Scenario{
		ID:          "builtin.escalating_25mw",
		Name:        "Escalating 25 MW",
		Category:    "builtin",
		Description: "Itemized costs with margin, degradation, escalation and tax.",
		Inputs: assumption.ModelInputs{
			CapacityMW:      25,
			P50YieldMWh:     47500,
			DegradationRate: 0.005,
			LifetimeYears:   30,
			PPAPrice:        62,
			PPAEscalation:   0.02,
			CapexItems: []assumption.CostItem{
				{Name: "Modules", Amount: 8_750_000},
				{Name: "Inverters", Amount: 1_500_000},
				{Name: "Balance of system", Amount: 4_250_000},
				{Name: "Grid connection", Amount: 1_800_000, MarginPct: floatPtr(0)},
				{Name: "Development", Amount: 950_000},
			},
			OpexItems: []assumption.CostItem{
				{Name: "O&M contract", Amount: 212_500},
				{Name: "Insurance", Amount: 75_000},
				{Name: "Land lease", Amount: 90_000},
			},
			GlobalMarginPct: 8,
			GearingRatio:    0.75,
			InterestRate:    0.055,
			DebtTenorYears:  18,
			TargetDSCR:      1.3,
			TaxRate:         0.25,
			DiscountRate:    0.07,
			OpexEscalation:  0.025,
		},
	}

	return []Scenario{ref, unlevered, merchant}
}

func floatPtr(v float64) *float64 { return &v }
