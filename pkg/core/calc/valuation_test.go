package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPV_DoesNotDiscountPeriodZero(t *testing.T) {
	got := NPV(0.10, []float64{-100, 110})
	assert.InDelta(t, 0.0, got, 1e-9)

	got = NPV(0.0, []float64{-100, 30, 30, 30})
	assert.InDelta(t, -10.0, got, 1e-9)
}

func TestPresentValueOfCashFlows_EndOfPeriod(t *testing.T) {
	// 100 at t=1 and t=2 at 10%: 90.909 + 82.645
	got := PresentValueOfCashFlows([]float64{100, 100}, 0.10)
	assert.InDelta(t, 173.5537, got, 1e-4)

	assert.InDelta(t, 82.6446, PresentValue(100, 0.10, 2), 1e-4)
	assert.Equal(t, 0.0, PresentValue(100, 0.10, -1))
}

func TestIRR_RoundTrip(t *testing.T) {
	cases := map[string][]float64{
		"simple":          {-1000, 300, 400, 500},
		"long annuity":    {-10_000_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000, 900_000},
		"late payoff":     {-500, 0, 0, 0, 800},
		"high return":     {-100, 250},
	}

	for name, flows := range cases {
		t.Run(name, func(t *testing.T) {
			res := IRRWithDiagnostics(flows, DefaultIRRGuess)
			require.True(t, res.Converged, "solver should converge, got %+v", res)
			assert.InDelta(t, 0.0, NPV(res.Rate, flows), 1e-4)
			assert.LessOrEqual(t, res.Iterations, 100)
		})
	}
}

func TestIRR_KnownValue(t *testing.T) {
	// -100 then 110 one year later is exactly 10%
	assert.InDelta(t, 0.10, IRR([]float64{-100, 110}, 0.05), 1e-9)
}

func TestIRR_NoRootReturnsLastIterate(t *testing.T) {
	// All-positive flows have no root; the derivative collapses as the rate runs away.
	flows := []float64{100, 10, 10}

	res := IRRWithDiagnostics(flows, DefaultIRRGuess)
	assert.False(t, res.Converged)
	assert.Greater(t, res.Rate, 1.0, "runaway iterate should land far outside the plausible range")

	// The permissive entry point still returns a number.
	assert.Equal(t, res.Rate, IRR(flows, DefaultIRRGuess))

	_, err := IRRStrict(flows, DefaultIRRGuess)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func TestIRRStrict_Converges(t *testing.T) {
	res, err := IRRStrict([]float64{-1000, 300, 400, 500}, DefaultIRRGuess)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Less(t, math.Abs(res.Residual), 1e-6)
}

func TestPayment_AmortizesToZero(t *testing.T) {
	cases := []struct {
		rate      float64
		periods   int
		principal float64
	}{
		{0.05, 10, 5_345_816.49},
		{0.07, 18, 12_000_000},
		{0.004, 240, 250_000},
		{0, 12, 1200},
	}

	for _, c := range cases {
		pmt := Payment(c.rate, c.periods, c.principal, 0)
		rows := AmortizationSchedule(c.rate, c.periods, c.principal, pmt)
		require.Len(t, rows, c.periods)
		last := rows[len(rows)-1]
		assert.InDelta(t, 0.0, last.Closing, c.principal*1e-9,
			"rate=%v periods=%d should fully repay", c.rate, c.periods)
	}
}

func TestPayment_WorkedLoan(t *testing.T) {
	// 5% over 10 years on ~5.35M is ~692k a year
	pmt := Payment(0.05, 10, 5_345_816.49, 0)
	assert.InDelta(t, 692_307.69, pmt, 0.01)
}

func TestPayment_ZeroRateIsLinear(t *testing.T) {
	assert.Equal(t, 100.0, Payment(0, 10, 1000, 0))
	assert.Equal(t, 110.0, Payment(0, 10, 1000, 100))
	assert.Equal(t, 0.0, Payment(0.05, 0, 1000, 0))
}

func TestPayment_WithResidual(t *testing.T) {
	// Settling an extra residual costs exactly its sinking-fund payment on top.
	base := Payment(0.06, 5, 1000, 0)
	withResidual := Payment(0.06, 5, 1000, 200)
	sinking := 0.06 * 200 / (math.Pow(1.06, 5) - 1)
	assert.InDelta(t, base+sinking, withResidual, 1e-9)
}

func TestPresentValueOfAnnuity_InvertsPayment(t *testing.T) {
	for _, rate := range []float64{0, 0.03, 0.05, 0.12} {
		pmt := Payment(rate, 15, 1_000_000, 0)
		assert.InDelta(t, 1_000_000, PresentValueOfAnnuity(rate, 15, pmt), 1e-6)
	}
	assert.Equal(t, 0.0, PresentValueOfAnnuity(0.05, 0, 100))
}
