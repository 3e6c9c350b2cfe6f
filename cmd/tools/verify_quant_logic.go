package main

import (
	"fmt"
	"math"
	"os"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/scenario"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/validate"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// check is one hand-computed figure for the reference 10 MW project.
type check struct {
	name     string
	got      float64
	expected float64
	relTol   float64
}

func main() {
	ref := scenario.Reference()
	res, err := valuation.Compute(ref.Inputs, valuation.DefaultOptions())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Reference 10 MW ---")
	fmt.Printf("Binding constraint: %s\n", res.Financing.BindingConstraint)
	fmt.Printf("Verdict: %s\n", res.Assessment.Verdict)

	checks := []check{
		{"PV(CFADS over tenor)", res.Financing.PVCFADSOverTenor, 6_949_561, 1e-6},
		{"Debt", res.Financing.Debt, 5_345_816, 1e-6},
		{"Equity", res.Financing.Equity, 4_654_184, 1e-6},
		{"Annual debt service", res.Financing.AnnualDebtService, 692_307.69, 1e-6},
		{"Project IRR", res.Metrics.ProjectIRR, 0.06395, 1e-3},
		{"Equity IRR", res.Metrics.EquityIRR, 0.0703, 1e-2},
		{"LCOE", res.Metrics.LCOE, 55.926, 1e-4},
		{"NPV", res.Metrics.NPV, -1_163_667, 1e-5},
		{"Min DSCR", deref(res.Metrics.MinDSCR), 1.30, 1e-9},
		{"Equity payback", deref(res.Metrics.EquityPaybackYears), 12.864, 1e-3},
		{"Project payback", deref(res.Metrics.ProjectPaybackYears), 11.111, 1e-3},
	}

	failed := 0
	for _, c := range checks {
		status := "OK"
		if !within(c.got, c.expected, c.relTol) {
			status = "MISMATCH"
			failed++
		}
		fmt.Printf("  %-22s got %16.4f  expected %16.4f  [%s]\n", c.name, c.got, c.expected, status)
	}

	if res.Financing.BindingConstraint != valuation.ConstraintDSCR {
		fmt.Println("  DSCR should bind for the reference project [MISMATCH]")
		failed++
	}
	if res.Assessment.Verdict != valuation.VerdictBelowTarget {
		fmt.Println("  Verdict should be below_target [MISMATCH]")
		failed++
	}

	// Every built-in scenario must tie out against itself
	fmt.Println("--- Linkage (built-in scenarios) ---")
	for _, s := range scenario.Builtin() {
		out := s.Evaluate(valuation.DefaultOptions())
		if out.Err != nil {
			fmt.Printf("  %-22s error: %v [MISMATCH]\n", s.Name, out.Err)
			failed++
			continue
		}
		report := validate.Result(out.Result, validate.DefaultTolerance)
		if !report.AllPassed {
			fmt.Printf("  %-22s %v [MISMATCH]\n", s.Name, report.FailedChecks)
			failed++
			continue
		}
		fmt.Printf("  %-22s %d checks [OK]\n", s.Name, len(report.Checks))
	}

	if failed > 0 {
		fmt.Printf("%d checks failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func within(got, expected, relTol float64) bool {
	if math.IsNaN(got) {
		return false
	}
	return math.Abs(got-expected) <= relTol*math.Abs(expected)
}
