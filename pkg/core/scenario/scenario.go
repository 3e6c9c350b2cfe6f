// Package scenario provides a library of named model inputs. Scenarios are
// defined in JSON, Hjson or YAML files, loaded at runtime, and evaluated
// individually or as a concurrent batch.
package scenario

import (
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// Scenario is one named set of model inputs.
type Scenario struct {
	ID          string                 `json:"id" yaml:"id"`                   // e.g. "utility.reference_10mw"
	Name        string                 `json:"name" yaml:"name"`               // Human-readable name
	Category    string                 `json:"category" yaml:"category"`       // Folder the file was found in
	Description string                 `json:"description" yaml:"description"` // Free text
	Inputs      assumption.ModelInputs `json:"inputs" yaml:"inputs"`
}

// Outcome is the evaluation of one scenario. Exactly one of Result and Err is set.
type Outcome struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Result *valuation.Result `json:"result,omitempty"`
	Err    error             `json:"-"`
	Error  string            `json:"error,omitempty"`
}

// Evaluate computes a single scenario.
func (s Scenario) Evaluate(opts valuation.Options) Outcome {
	out := Outcome{ID: s.ID, Name: s.Name}
	res, err := valuation.Compute(s.Inputs, opts)
	if err != nil {
		out.Err = err
		out.Error = err.Error()
		return out
	}
	out.Result = res
	return out
}
