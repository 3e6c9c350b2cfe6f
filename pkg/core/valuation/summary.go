// Package valuation sizes project debt and assembles the bankability result
// of a solar project: financing structure, equity cash flows, headline
// metrics, assessment and the yearly and monthly time series.
package valuation

import (
	"fmt"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
)

// ErrNotNormalized is returned by Calculate for inputs that skipped assumption.Normalize.
var ErrNotNormalized = projection.ErrNotNormalized

// Options tune a calculation without changing the model inputs.
type Options struct {
	// SeasonalCurve spreads annual energy over months. The zero value means
	// projection.DefaultSeasonalCurve.
	SeasonalCurve projection.SeasonalCurve
	// StrictIRR turns IRR non-convergence into calc.ErrNoConvergence.
	StrictIRR bool
	// IRRGuess seeds the solver; 0 means calc.DefaultIRRGuess.
	IRRGuess float64
}

// DefaultOptions returns the permissive defaults.
func DefaultOptions() Options {
	return Options{SeasonalCurve: projection.DefaultSeasonalCurve, IRRGuess: calc.DefaultIRRGuess}
}

// =============================================================================
// RESULT
// =============================================================================

// ProjectSummary echoes the canonical inputs the result was computed from.
type ProjectSummary struct {
	CapacityMW      float64                  `json:"capacity_mw"`
	P50YieldMWh     float64                  `json:"p50_yield_mwh"`
	LifetimeYears   int                      `json:"lifetime_years"`
	PPAPrice        float64                  `json:"ppa_price"`
	CapexPerMW      float64                  `json:"capex_per_mw"`
	OpexPerMWYear   float64                  `json:"opex_per_mw_year"`
	CapexSource     assumption.CostBasisKind `json:"capex_source"`
	OpexSource      assumption.CostBasisKind `json:"opex_source"`
	TotalCapex      float64                  `json:"total_capex"`
	DiscountRate    float64                  `json:"discount_rate"`
	TaxRate         float64                  `json:"tax_rate"`
	DegradationRate float64                  `json:"degradation_rate"`
}

// KeyMetrics are the headline investment figures. Nil pointers mean undefined.
type KeyMetrics struct {
	ProjectIRR          float64  `json:"project_irr"`
	EquityIRR           float64  `json:"equity_irr"`
	LCOE                float64  `json:"lcoe"`
	MinDSCR             *float64 `json:"min_dscr"`
	AvgDSCR             *float64 `json:"avg_dscr"`
	NPV                 float64  `json:"npv"`
	ProjectPaybackYears *float64 `json:"project_payback_years"`
	EquityPaybackYears  *float64 `json:"equity_payback_years"`
}

// IRRDiagnostics exposes the solver state behind both IRRs.
type IRRDiagnostics struct {
	Project calc.IRRResult `json:"project"`
	Equity  calc.IRRResult `json:"equity"`
}

// YearlyRow is one year of the full time series.
type YearlyRow struct {
	projection.YearProjection
	DebtService         float64  `json:"debt_service"`
	DSCR                *float64 `json:"dscr"`
	FCFE                float64  `json:"fcfe"`
	CumulativeFCFE      float64  `json:"cumulative_fcfe"` // starts from −equity
	DiscountedCFADS     float64  `json:"discounted_cfads"`
	CumulativeProjectCF float64  `json:"cumulative_project_cf"` // starts from −capex
}

// MonthlyRow is one month of the full time series.
type MonthlyRow struct {
	projection.MonthProjection
	DebtService float64  `json:"debt_service"`
	DSCR        *float64 `json:"dscr"`
	FCFE        float64  `json:"fcfe"`
}

// Result is the full bankability output of one calculation.
type Result struct {
	Summary     ProjectSummary     `json:"summary"`
	Financing   FinancingStructure `json:"financing"`
	Metrics     KeyMetrics         `json:"metrics"`
	FirstYear   YearlyRow          `json:"first_year"`
	Assessment  Assessment         `json:"assessment"`
	Yearly      []YearlyRow        `json:"yearly"`
	Monthly     []MonthlyRow       `json:"monthly"`
	Diagnostics IRRDiagnostics     `json:"diagnostics"`
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Compute normalizes the entered inputs and calculates the result.
// Validation failures surface as *assumption.ValidationError before any
// projection runs.
func Compute(in assumption.ModelInputs, opts Options) (*Result, error) {
	canonical, err := assumption.Normalize(in)
	if err != nil {
		return nil, err
	}
	return Calculate(canonical, opts)
}

// Calculate runs the full pipeline on a normalized record:
// projection → debt sizing → equity flows → metrics → assembled result.
func Calculate(in assumption.CanonicalInputs, opts Options) (*Result, error) {
	curve := opts.SeasonalCurve
	if curve == (projection.SeasonalCurve{}) {
		curve = projection.DefaultSeasonalCurve
	}
	guess := opts.IRRGuess
	if guess == 0 {
		guess = calc.DefaultIRRGuess
	}

	engine, err := projection.NewProjectionEngine(in, curve)
	if err != nil {
		return nil, err
	}

	// 1. Operating projection over the lifetime
	years := engine.Lifetime()
	n := len(years)
	cfads := make([]float64, n)
	opex := make([]float64, n)
	energy := make([]float64, n)
	for i, y := range years {
		cfads[i] = y.CFADS
		opex[i] = y.Opex
		energy[i] = y.EnergyMWh
	}

	// 2. Debt sizing
	fin := SizeDebt(in, cfads)
	capex := fin.TotalCapex

	// 3. Equity cash flows and payback
	fcfe := EquityCashFlows(cfads, fin)
	equityPayback := PaybackPeriod(fin.Equity, fcfe)
	projectPayback := PaybackPeriod(capex, cfads)

	// 4. IRRs
	projectIRR := calc.IRRWithDiagnostics(prepend(-capex, cfads), guess)
	equityIRR := calc.IRRWithDiagnostics(prepend(-fin.Equity, fcfe), guess)
	if opts.StrictIRR {
		if !projectIRR.Converged {
			return nil, fmt.Errorf("project irr: %w (iterations=%d, residual=%.6g)", calc.ErrNoConvergence, projectIRR.Iterations, projectIRR.Residual)
		}
		if !equityIRR.Converged {
			return nil, fmt.Errorf("equity irr: %w (iterations=%d, residual=%.6g)", calc.ErrNoConvergence, equityIRR.Iterations, equityIRR.Residual)
		}
	}

	// 5. Yearly series
	yearly := make([]YearlyRow, n)
	dscrs := make([]*float64, 0, fin.TenorYears)
	cumEquity := -fin.Equity
	cumProject := -capex
	for i, y := range years {
		service := fin.DebtServiceForYear(y.Year)
		dscr := fin.DSCRForYear(y.Year, y.CFADS)
		if y.Year <= fin.TenorYears {
			dscrs = append(dscrs, dscr)
		}
		cumEquity += fcfe[i]
		cumProject += y.CFADS
		yearly[i] = YearlyRow{
			YearProjection:      y,
			DebtService:         service,
			DSCR:                dscr,
			FCFE:                fcfe[i],
			CumulativeFCFE:      cumEquity,
			DiscountedCFADS:     calc.PresentValue(y.CFADS, in.DiscountRate, y.Year),
			CumulativeProjectCF: cumProject,
		}
	}

	// 6. Monthly series
	monthly := make([]MonthlyRow, 0, n*12)
	for _, y := range years {
		service := fin.DebtServiceForYear(y.Year) / 12
		for _, m := range engine.ProjectMonths(y.Year) {
			row := MonthlyRow{MonthProjection: m, DebtService: service, FCFE: m.CFADS - service}
			if service != 0 {
				d := m.CFADS / service
				row.DSCR = &d
			}
			monthly = append(monthly, row)
		}
	}

	// 7. Metrics and assessment
	minDSCR, avgDSCR := DSCRStats(dscrs)
	metrics := KeyMetrics{
		ProjectIRR:          projectIRR.Rate,
		EquityIRR:           equityIRR.Rate,
		LCOE:                LCOE(capex, opex, energy, in.DiscountRate),
		MinDSCR:             minDSCR,
		AvgDSCR:             avgDSCR,
		NPV:                 ProjectNPV(capex, cfads, in.DiscountRate),
		ProjectPaybackYears: projectPayback,
		EquityPaybackYears:  equityPayback,
	}

	return &Result{
		Summary: ProjectSummary{
			CapacityMW:      in.CapacityMW,
			P50YieldMWh:     in.P50YieldMWh,
			LifetimeYears:   in.LifetimeYears,
			PPAPrice:        in.PPAPrice,
			CapexPerMW:      in.CapexPerMW,
			OpexPerMWYear:   in.OpexPerMWYear,
			CapexSource:     in.CapexSource,
			OpexSource:      in.OpexSource,
			TotalCapex:      capex,
			DiscountRate:    in.DiscountRate,
			TaxRate:         in.TaxRate,
			DegradationRate: in.DegradationRate,
		},
		Financing:   fin,
		Metrics:     metrics,
		FirstYear:   yearly[0],
		Assessment:  Assess(metrics.ProjectIRR, metrics.EquityIRR, metrics.MinDSCR),
		Yearly:      yearly,
		Monthly:     monthly,
		Diagnostics: IRRDiagnostics{Project: projectIRR, Equity: equityIRR},
	}, nil
}

func prepend(first float64, rest []float64) []float64 {
	out := make([]float64, 0, len(rest)+1)
	out = append(out, first)
	return append(out, rest...)
}
