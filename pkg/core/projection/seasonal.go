package projection

import (
	"fmt"
	"math"
)

const seasonalSumTolerance = 1e-9

// SeasonalCurve is the share of annual energy produced in each month, January first.
type SeasonalCurve [12]float64

// DefaultSeasonalCurve is a mid-latitude northern-hemisphere profile.
var DefaultSeasonalCurve = SeasonalCurve{
	0.045, 0.055, 0.080, 0.095, 0.110, 0.115,
	0.120, 0.110, 0.090, 0.070, 0.055, 0.055,
}

// FlatSeasonalCurve spreads energy evenly across the year.
func FlatSeasonalCurve() SeasonalCurve {
	var c SeasonalCurve
	for i := range c {
		c[i] = 1.0 / 12
	}
	return c
}

// NewSeasonalCurve builds a curve from exactly twelve factors and validates it.
func NewSeasonalCurve(factors []float64) (SeasonalCurve, error) {
	var c SeasonalCurve
	if len(factors) != 12 {
		return c, fmt.Errorf("seasonal curve needs 12 factors, got %d", len(factors))
	}
	copy(c[:], factors)
	if err := c.Validate(); err != nil {
		return SeasonalCurve{}, err
	}
	return c, nil
}

// Validate checks every factor is non-negative and the curve sums to 1.0.
func (c SeasonalCurve) Validate() error {
	sum := 0.0
	for i, f := range c {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("seasonal factor for month %d must be a non-negative number, got %v", i+1, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > seasonalSumTolerance {
		return fmt.Errorf("seasonal factors must sum to 1.0, got %.12f", sum)
	}
	return nil
}
