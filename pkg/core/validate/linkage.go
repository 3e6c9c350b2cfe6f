package validate

import (
	"fmt"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// =============================================================================
// RESULT LINKAGE VALIDATION
// =============================================================================

// LinkageReport contains every tie-out run against one result.
type LinkageReport struct {
	Checks       []Check  `json:"checks"`
	AllPassed    bool     `json:"all_passed"`
	FailedChecks []string `json:"failed_checks,omitempty"`
}

func (r *LinkageReport) add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.AllPassed = false
		r.FailedChecks = append(r.FailedChecks, c.Name)
	}
}

// Result ties a computed result out against itself:
//  1. Funding: total capex = debt + equity
//  2. Debt within both the DSCR and the gearing cap
//  3. Monthly → yearly: each year's twelve months sum to the year
//  4. Equity and project cumulative balances roll forward
//  5. DSCR series: CFADS / debt service inside the tenor, none after
//  6. Energy declines at the degradation rate
//
// tolerance is relative; <= 0 uses DefaultTolerance.
func Result(res *valuation.Result, tolerance float64) *LinkageReport {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	report := &LinkageReport{AllPassed: true}
	fin := res.Financing

	// 1. Funding
	report.add(CheckFundingEquation(fin.TotalCapex, fin.Debt, fin.Equity, tolerance))

	// 2. Debt caps
	limit := fin.DebtByDSCR
	if fin.DebtByGearing < limit {
		limit = fin.DebtByGearing
	}
	report.add(NewCheck("Debt = min(DSCR cap, gearing cap)", limit, fin.Debt, tolerance))

	// 3. Monthly → yearly
	validateMonthlyLinkage(report, res, tolerance)

	// 4. Roll-forwards
	if n := len(res.Yearly); n > 0 {
		fcfe := make([]float64, n)
		cfads := make([]float64, n)
		for i, y := range res.Yearly {
			fcfe[i] = y.FCFE
			cfads[i] = y.CFADS
		}
		report.add(CheckRollForward("Cumulative FCFE roll-forward", -fin.Equity, fcfe, res.Yearly[n-1].CumulativeFCFE, tolerance))
		report.add(CheckRollForward("Cumulative project cash flow roll-forward", -fin.TotalCapex, cfads, res.Yearly[n-1].CumulativeProjectCF, tolerance))
	}

	// 5. DSCR series
	validateDSCRLinkage(report, res, tolerance)

	// 6. Degradation
	if n := len(res.Yearly); n > 1 && res.Yearly[0].EnergyMWh > 0 {
		cagr := CalculateCAGR(res.Yearly[0].EnergyMWh, res.Yearly[n-1].EnergyMWh, n-1)
		report.add(NewCheck("Energy CAGR = −degradation", -res.Summary.DegradationRate, cagr, tolerance))
	}

	return report
}

// validateMonthlyLinkage sums each year's months and compares every field.
func validateMonthlyLinkage(report *LinkageReport, res *valuation.Result, tolerance float64) {
	if len(res.Monthly) != 12*len(res.Yearly) {
		report.add(Check{
			Name:     "Twelve months per year",
			Expected: float64(12 * len(res.Yearly)),
			Actual:   float64(len(res.Monthly)),
			Note:     "monthly series does not cover the lifetime",
		})
		return
	}

	fields := []struct {
		name    string
		yearly  func(valuation.YearlyRow) float64
		monthly func(valuation.MonthlyRow) float64
	}{
		{"energy", func(y valuation.YearlyRow) float64 { return y.EnergyMWh }, func(m valuation.MonthlyRow) float64 { return m.EnergyMWh }},
		{"revenue", func(y valuation.YearlyRow) float64 { return y.Revenue }, func(m valuation.MonthlyRow) float64 { return m.Revenue }},
		{"opex", func(y valuation.YearlyRow) float64 { return y.Opex }, func(m valuation.MonthlyRow) float64 { return m.Opex }},
		{"CFADS", func(y valuation.YearlyRow) float64 { return y.CFADS }, func(m valuation.MonthlyRow) float64 { return m.CFADS }},
		{"debt service", func(y valuation.YearlyRow) float64 { return y.DebtService }, func(m valuation.MonthlyRow) float64 { return m.DebtService }},
		{"FCFE", func(y valuation.YearlyRow) float64 { return y.FCFE }, func(m valuation.MonthlyRow) float64 { return m.FCFE }},
	}

	for _, f := range fields {
		// One check per field: the first year that fails, else the last year.
		var check Check
		for i, y := range res.Yearly {
			sum := 0.0
			for _, m := range res.Monthly[i*12 : i*12+12] {
				sum += f.monthly(m)
			}
			check = NewCheck(fmt.Sprintf("Monthly %s sums to yearly", f.name), f.yearly(y), sum, tolerance)
			if !check.Passed {
				check.Note = fmt.Sprintf("year %d", y.Year)
				break
			}
		}
		report.add(check)
	}
}

// validateDSCRLinkage recomputes each year's DSCR and the minimum.
func validateDSCRLinkage(report *LinkageReport, res *valuation.Result, tolerance float64) {
	tenor := res.Financing.TenorYears
	var lowest *float64
	mismatch := Check{Name: "Yearly DSCR = CFADS / debt service", Passed: true}

	for _, y := range res.Yearly {
		if y.Year > tenor || y.DebtService == 0 {
			if y.DSCR != nil {
				mismatch = Check{
					Name:   "Yearly DSCR = CFADS / debt service",
					Actual: *y.DSCR,
					Note:   fmt.Sprintf("year %d has a DSCR without debt service", y.Year),
				}
				break
			}
			continue
		}
		expected := y.CFADS / y.DebtService
		if y.DSCR == nil {
			mismatch = Check{
				Name:     "Yearly DSCR = CFADS / debt service",
				Expected: expected,
				Note:     fmt.Sprintf("year %d is missing its DSCR", y.Year),
			}
			break
		}
		if c := NewCheck("Yearly DSCR = CFADS / debt service", expected, *y.DSCR, tolerance); !c.Passed {
			c.Note = fmt.Sprintf("year %d", y.Year)
			mismatch = c
			break
		}
		if lowest == nil || *y.DSCR < *lowest {
			v := *y.DSCR
			lowest = &v
		}
	}
	report.add(mismatch)

	switch {
	case lowest == nil && res.Metrics.MinDSCR == nil:
	case lowest == nil || res.Metrics.MinDSCR == nil:
		report.add(Check{Name: "Minimum DSCR matches series", Note: "minimum DSCR present on one side only"})
	default:
		report.add(NewCheck("Minimum DSCR matches series", *lowest, *res.Metrics.MinDSCR, tolerance))
	}
}
