package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
)

// ErrNotNormalized is returned when the engine is handed inputs that did not
// pass through assumption.Normalize.
var ErrNotNormalized = errors.New("inputs have not been normalized")

// ProjectionEngine derives energy, revenue, cost and CFADS for any period of
// the project life from a canonical input record.
type ProjectionEngine struct {
	inputs assumption.CanonicalInputs
	curve  SeasonalCurve
}

// NewProjectionEngine creates an engine for one input record and one seasonal curve.
func NewProjectionEngine(inputs assumption.CanonicalInputs, curve SeasonalCurve) (*ProjectionEngine, error) {
	if !inputs.Normalized() {
		return nil, ErrNotNormalized
	}
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seasonal curve: %w", err)
	}
	return &ProjectionEngine{inputs: inputs, curve: curve}, nil
}

// Inputs returns the record the engine projects from.
func (e *ProjectionEngine) Inputs() assumption.CanonicalInputs { return e.inputs }

// Curve returns the seasonal curve used for monthly figures.
func (e *ProjectionEngine) Curve() SeasonalCurve { return e.curve }

// ProjectYear calculates the operating figures for year t (1-indexed).
//
//	Energy(t)  = P50 × (1 − degradation)^(t−1)
//	Revenue(t) = Energy(t) × PPA × (1 + PPA escalation)^(t−1)
//	Opex(t)    = capacity × opex rate × (1 + O&M escalation)^(t−1)
//	EBITDA(t)  = Revenue(t) − Opex(t)
//	CFADS(t)   = EBITDA(t) × (1 − tax)
func (e *ProjectionEngine) ProjectYear(t int) YearProjection {
	in := e.inputs
	age := float64(t - 1)

	energy := in.P50YieldMWh * math.Pow(1-in.DegradationRate, age)
	revenue := energy * in.PPAPrice * math.Pow(1+in.PPAEscalation, age)
	opex := in.AnnualOpexBase() * math.Pow(1+in.OpexEscalation, age)
	ebitda := revenue - opex

	return YearProjection{
		Year:      t,
		EnergyMWh: energy,
		Revenue:   revenue,
		Opex:      opex,
		EBITDA:    ebitda,
		CFADS:     ebitda * (1 - in.TaxRate),
	}
}

// ProjectMonth spreads year t over its months: energy and revenue follow the
// seasonal curve, operating cost is split evenly.
func (e *ProjectionEngine) ProjectMonth(t, month int) MonthProjection {
	y := e.ProjectYear(t)
	return e.monthOf(y, month)
}

// ProjectMonths returns the twelve months of year t.
func (e *ProjectionEngine) ProjectMonths(t int) []MonthProjection {
	y := e.ProjectYear(t)
	months := make([]MonthProjection, 12)
	for m := 1; m <= 12; m++ {
		months[m-1] = e.monthOf(y, m)
	}
	return months
}

func (e *ProjectionEngine) monthOf(y YearProjection, month int) MonthProjection {
	share := e.curve[month-1]

	energy := y.EnergyMWh * share
	revenue := y.Revenue * share
	opex := y.Opex / 12
	ebitda := revenue - opex

	return MonthProjection{
		Year:      y.Year,
		Month:     month,
		EnergyMWh: energy,
		Revenue:   revenue,
		Opex:      opex,
		EBITDA:    ebitda,
		CFADS:     ebitda * (1 - e.inputs.TaxRate),
	}
}

// Lifetime projects every year from 1 to the project lifetime.
func (e *ProjectionEngine) Lifetime() []YearProjection {
	years := make([]YearProjection, e.inputs.LifetimeYears)
	for t := 1; t <= e.inputs.LifetimeYears; t++ {
		years[t-1] = e.ProjectYear(t)
	}
	return years
}

// CFADSSeries returns CFADS for years 1..n.
func (e *ProjectionEngine) CFADSSeries(n int) []float64 {
	out := make([]float64, n)
	for t := 1; t <= n; t++ {
		out[t-1] = e.ProjectYear(t).CFADS
	}
	return out
}
