package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
)

func canonical(t *testing.T, edit func(*assumption.ModelInputs)) assumption.CanonicalInputs {
	t.Helper()
	in := assumption.ModelInputs{
		CapacityMW:      10,
		P50YieldMWh:     20_000,
		DegradationRate: 0.005,
		LifetimeYears:   25,
		PPAPrice:        50,
		PPAEscalation:   0.02,
		CapexPerMW:      1_000_000,
		OpexPerMWYear:   10_000,
		GearingRatio:    0.7,
		InterestRate:    0.05,
		DebtTenorYears:  15,
		TargetDSCR:      1.3,
		TaxRate:         0.25,
		DiscountRate:    0.08,
		OpexEscalation:  0.025,
	}
	if edit != nil {
		edit(&in)
	}
	c, err := assumption.Normalize(in)
	require.NoError(t, err)
	return c
}

func TestNewProjectionEngine_RejectsRawInputs(t *testing.T) {
	_, err := NewProjectionEngine(assumption.CanonicalInputs{CapacityMW: 10}, DefaultSeasonalCurve)
	assert.ErrorIs(t, err, ErrNotNormalized)
}

func TestNewProjectionEngine_RejectsBadCurve(t *testing.T) {
	bad := DefaultSeasonalCurve
	bad[0] += 0.01
	_, err := NewProjectionEngine(canonical(t, nil), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestProjectYear_FirstYear(t *testing.T) {
	e, err := NewProjectionEngine(canonical(t, nil), DefaultSeasonalCurve)
	require.NoError(t, err)

	y := e.ProjectYear(1)
	assert.Equal(t, 1, y.Year)
	assert.InDelta(t, 20_000.0, y.EnergyMWh, 1e-9)
	assert.InDelta(t, 1_000_000.0, y.Revenue, 1e-6)
	assert.InDelta(t, 100_000.0, y.Opex, 1e-9)
	assert.InDelta(t, 900_000.0, y.EBITDA, 1e-6)
	assert.InDelta(t, 675_000.0, y.CFADS, 1e-6)
}

func TestProjectYear_DegradationAndEscalation(t *testing.T) {
	e, err := NewProjectionEngine(canonical(t, nil), DefaultSeasonalCurve)
	require.NoError(t, err)

	y := e.ProjectYear(11)
	energy := 20_000 * math.Pow(0.995, 10)
	revenue := energy * 50 * math.Pow(1.02, 10)
	opex := 100_000 * math.Pow(1.025, 10)

	assert.InDelta(t, energy, y.EnergyMWh, 1e-9)
	assert.InDelta(t, revenue, y.Revenue, 1e-6)
	assert.InDelta(t, opex, y.Opex, 1e-6)
	assert.InDelta(t, (revenue-opex)*0.75, y.CFADS, 1e-6)
}

func TestProjectMonths_SumToAnnual(t *testing.T) {
	curves := map[string]SeasonalCurve{
		"default": DefaultSeasonalCurve,
		"flat":    FlatSeasonalCurve(),
	}

	for name, curve := range curves {
		t.Run(name, func(t *testing.T) {
			e, err := NewProjectionEngine(canonical(t, nil), curve)
			require.NoError(t, err)

			for _, year := range []int{1, 7, 25} {
				annual := e.ProjectYear(year)
				var energy, revenue, opex, cfads float64
				for _, m := range e.ProjectMonths(year) {
					energy += m.EnergyMWh
					revenue += m.Revenue
					opex += m.Opex
					cfads += m.CFADS
				}
				assert.InEpsilon(t, annual.EnergyMWh, energy, 1e-6)
				assert.InEpsilon(t, annual.Revenue, revenue, 1e-6)
				assert.InEpsilon(t, annual.Opex, opex, 1e-6)
				assert.InEpsilon(t, annual.CFADS, cfads, 1e-6)
			}
		})
	}
}

func TestProjectMonth_FollowsCurve(t *testing.T) {
	e, err := NewProjectionEngine(canonical(t, nil), DefaultSeasonalCurve)
	require.NoError(t, err)

	jul := e.ProjectMonth(1, 7)
	assert.Equal(t, 7, jul.Month)
	assert.InDelta(t, 20_000*0.120, jul.EnergyMWh, 1e-9)
	assert.InDelta(t, 100_000.0/12, jul.Opex, 1e-9)
	assert.InDelta(t, (jul.Revenue-jul.Opex)*0.75, jul.CFADS, 1e-9)
}

func TestLifetimeAndCFADSSeries(t *testing.T) {
	e, err := NewProjectionEngine(canonical(t, nil), DefaultSeasonalCurve)
	require.NoError(t, err)

	years := e.Lifetime()
	require.Len(t, years, 25)
	cfads := e.CFADSSeries(15)
	require.Len(t, cfads, 15)
	for i, v := range cfads {
		assert.Equal(t, years[i].CFADS, v)
	}
}

func TestNewSeasonalCurve(t *testing.T) {
	_, err := NewSeasonalCurve([]float64{0.5, 0.5})
	assert.Error(t, err)

	_, err = NewSeasonalCurve([]float64{-0.1, 0.2, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0})
	assert.Error(t, err)

	c, err := NewSeasonalCurve(DefaultSeasonalCurve[:])
	require.NoError(t, err)
	assert.Equal(t, DefaultSeasonalCurve, c)
	assert.NoError(t, FlatSeasonalCurve().Validate())
}
