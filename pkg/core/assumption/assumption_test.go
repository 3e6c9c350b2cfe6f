package assumption

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workedInputs() ModelInputs {
	return ModelInputs{
		CapacityMW:     10,
		P50YieldMWh:    20_000,
		LifetimeYears:  20,
		PPAPrice:       50,
		CapexPerMW:     1_000_000,
		OpexPerMWYear:  10_000,
		GearingRatio:   0.7,
		InterestRate:   0.05,
		DebtTenorYears: 10,
		TargetDSCR:     1.3,
		DiscountRate:   0.08,
	}
}

func pct(v float64) *float64 { return &v }

func TestNormalize_DirectRates(t *testing.T) {
	c, err := Normalize(workedInputs())
	require.NoError(t, err)

	assert.True(t, c.Normalized())
	assert.Equal(t, 1_000_000.0, c.CapexPerMW)
	assert.Equal(t, 10_000.0, c.OpexPerMWYear)
	assert.Equal(t, CostBasisDirect, c.CapexSource)
	assert.Equal(t, CostBasisDirect, c.OpexSource)
	assert.Equal(t, 10_000_000.0, c.TotalCapex())
	assert.Equal(t, 100_000.0, c.AnnualOpexBase())
}

func TestNormalize_ItemizedWithMargins(t *testing.T) {
	in := workedInputs()
	in.CapexPerMW = 0
	in.OpexPerMWYear = 0
	in.GlobalMarginPct = 10
	in.CapexItems = []CostItem{
		{Name: "modules", Amount: 4_000_000},                  // global 10% -> 4.4M
		{Name: "inverters", Amount: 1_000_000, MarginPct: pct(0)}, // override -> 1.0M
		{Name: "bos", Amount: 2_000_000, MarginPct: pct(25)},     // override -> 2.5M
	}
	in.OpexItems = []CostItem{
		{Name: "o&m", Amount: 80_000, MarginPct: pct(50)}, // margin ignored
		{Name: "insurance", Amount: 20_000},
	}

	c, err := Normalize(in)
	require.NoError(t, err)

	assert.InDelta(t, 7_900_000.0/10, c.CapexPerMW, 1e-6)
	assert.InDelta(t, 10_000.0, c.OpexPerMWYear, 1e-9)
	assert.Equal(t, CostBasisItemized, c.CapexSource)
	assert.Equal(t, CostBasisItemized, c.OpexSource)
}

func TestNormalize_ItemsTakePriorityOverDirectRate(t *testing.T) {
	in := workedInputs()
	in.CapexItems = []CostItem{{Name: "epc", Amount: 5_000_000}}

	c, err := Normalize(in)
	require.NoError(t, err)
	assert.InDelta(t, 500_000.0, c.CapexPerMW, 1e-9)
	assert.Equal(t, CostBasisDirect, c.OpexSource)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := workedInputs()
	in.CapexItems = []CostItem{{Name: "epc", Amount: 5_000_000, MarginPct: pct(5)}}
	before := in.Clone()

	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestClone_IsDeep(t *testing.T) {
	in := workedInputs()
	in.CapexItems = []CostItem{{Name: "epc", Amount: 1, MarginPct: pct(5)}}

	cp := in.Clone()
	cp.CapexItems[0].Amount = 99
	*cp.CapexItems[0].MarginPct = 99

	assert.Equal(t, 1.0, in.CapexItems[0].Amount)
	assert.Equal(t, 5.0, *in.CapexItems[0].MarginPct)
}

func TestNormalize_ValidationNamesField(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*ModelInputs)
		field string
	}{
		{"missing capex", func(in *ModelInputs) { in.CapexPerMW = 0 }, "capex_per_mw"},
		{"negative opex", func(in *ModelInputs) { in.OpexPerMWYear = -5 }, "opex_per_mw_year"},
		{"zero itemized capex", func(in *ModelInputs) { in.CapexItems = []CostItem{{Name: "x", Amount: 0}} }, "capex_items"},
		{"zero capacity", func(in *ModelInputs) { in.CapacityMW = 0 }, "capacity_mw"},
		{"zero yield", func(in *ModelInputs) { in.P50YieldMWh = 0 }, "p50_yield_mwh"},
		{"zero lifetime", func(in *ModelInputs) { in.LifetimeYears = 0 }, "lifetime_years"},
		{"tenor beyond lifetime", func(in *ModelInputs) { in.DebtTenorYears = 25 }, "debt_tenor_years"},
		{"zero dscr", func(in *ModelInputs) { in.TargetDSCR = 0 }, "target_dscr"},
		{"gearing above one", func(in *ModelInputs) { in.GearingRatio = 1.2 }, "gearing_ratio"},
		{"tax of one", func(in *ModelInputs) { in.TaxRate = 1 }, "tax_rate"},
		{"degradation of one", func(in *ModelInputs) { in.DegradationRate = 1 }, "degradation_rate"},
		{"discount at -100%", func(in *ModelInputs) { in.DiscountRate = -1 }, "discount_rate"},
		{"item margin", func(in *ModelInputs) {
			in.CapexItems = []CostItem{{Name: "x", Amount: 1, MarginPct: pct(-100)}}
		}, "capex_items[0].margin_pct"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := workedInputs()
			tc.edit(&in)

			c, err := Normalize(in)
			require.Error(t, err)
			assert.False(t, c.Normalized())

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestItemizedCosts_Total(t *testing.T) {
	items := ItemizedCosts{
		Items:           []CostItem{{Amount: 100}, {Amount: 100, MarginPct: pct(50)}},
		GlobalMarginPct: 20,
		ApplyMargin:     true,
	}
	assert.InDelta(t, 270.0, items.Total(), 1e-9)
	assert.InDelta(t, 27.0, items.PerMW(10), 1e-9)
	assert.Equal(t, 0.0, items.PerMW(0))

	items.ApplyMargin = false
	assert.InDelta(t, 200.0, items.Total(), 1e-9)
}
