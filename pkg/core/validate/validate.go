// Package validate provides reusable consistency checks for computed
// bankability results. These functions can be called from tests, API
// handlers, or tools to verify that a result's figures tie out.
package validate

import (
	"fmt"
	"math"
)

// DefaultTolerance is the relative tolerance used by Result.
const DefaultTolerance = 1e-6

// =============================================================================
// CHECK PRIMITIVE
// =============================================================================

// Check is one tie-out: an expected figure against the figure actually found.
type Check struct {
	Name       string  `json:"name"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"` // Actual - Expected
	Passed     bool    `json:"passed"`
	Note       string  `json:"note,omitempty"`
}

// Within reports whether actual is within tolerance of expected, relative to
// the larger of |expected| and 1.
func Within(expected, actual, tolerance float64) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return false
	}
	return math.Abs(actual-expected) <= tolerance*math.Max(1, math.Abs(expected))
}

// NewCheck builds a Check and grades it.
func NewCheck(name string, expected, actual, tolerance float64) Check {
	return Check{
		Name:       name,
		Expected:   expected,
		Actual:     actual,
		Difference: actual - expected,
		Passed:     Within(expected, actual, tolerance),
	}
}

// =============================================================================
// GROWTH
// =============================================================================

// CalculateCAGR calculates compound annual growth rate.
// CAGR = ((EndValue / StartValue) ^ (1/years)) - 1
func CalculateCAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || endValue < 0 || years <= 0 {
		return math.NaN()
	}
	return math.Pow(endValue/startValue, 1/float64(years)) - 1
}

// =============================================================================
// FUNDING
// =============================================================================

// CheckFundingEquation validates Capex = Debt + Equity within tolerance.
func CheckFundingEquation(capex, debt, equity, tolerance float64) Check {
	c := NewCheck("Capex = Debt + Equity", capex, debt+equity, tolerance)
	if !c.Passed {
		c.Note = fmt.Sprintf("funding gap of %.2f", c.Difference)
	}
	return c
}

// CheckRollForward validates that a running balance equals its opening
// value plus every flow.
func CheckRollForward(name string, opening float64, flows []float64, closing, tolerance float64) Check {
	expected := opening
	for _, f := range flows {
		expected += f
	}
	return NewCheck(name, expected, closing, tolerance)
}
