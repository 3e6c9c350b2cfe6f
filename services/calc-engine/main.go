package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/utils"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/validate"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "Inputs payload (JSON or Hjson)")
	strict := flag.Bool("strict", false, "Fail when an IRR does not converge")
	flag.Parse()

	if *dataStr == "" {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	var data assumption.ModelInputs
	if _, _, err := utils.SmartParse([]byte(*dataStr), &data); err != nil {
		fmt.Printf("Error unmarshaling data: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "check":
		runChecks(data)
	case "calculate":
		runCalculations(data, options(*strict))
	default:
		fmt.Printf("Unknown mode: %s\n", *mode)
		os.Exit(1)
	}
}

func options(strict bool) valuation.Options {
	opts := valuation.DefaultOptions()
	opts.StrictIRR = strict
	return opts
}

// runChecks validates the inputs, then ties the computed result out.
func runChecks(data assumption.ModelInputs) {
	in, err := assumption.Normalize(data)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Inputs valid (capex %s, opex %s)\n", in.CapexSource, in.OpexSource)

	res, err := valuation.Calculate(in, options(false))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	report := validate.Result(res, validate.DefaultTolerance)
	for _, c := range report.Checks {
		status := "ok"
		if !c.Passed {
			status = "FAILED"
		}
		fmt.Printf("  [%s] %s (diff %.6g) %s\n", status, c.Name, c.Difference, c.Note)
	}
	if !report.AllPassed {
		fmt.Printf("Error: %d linkage checks failed\n", len(report.FailedChecks))
		os.Exit(1)
	}
	fmt.Println("Success: result ties out")
}

func runCalculations(data assumption.ModelInputs, opts valuation.Options) {
	res, err := valuation.Compute(data, opts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	out := struct {
		Financing  valuation.FinancingStructure `json:"financing"`
		Metrics    valuation.KeyMetrics         `json:"metrics"`
		Assessment valuation.Assessment         `json:"assessment"`
	}{res.Financing, res.Metrics, res.Assessment}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Printf("Error encoding result: %v\n", err)
		os.Exit(1)
	}
}
