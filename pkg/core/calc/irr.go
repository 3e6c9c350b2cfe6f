package calc

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultIRRGuess is the starting rate for the Newton–Raphson solver.
	DefaultIRRGuess = 0.10

	irrMaxIterations   = 100
	irrTolerance       = 1e-6
	irrDerivativeFloor = 1e-10
)

// ErrNoConvergence is returned by the strict IRR entry point when the solver
// stops without bringing |NPV| under tolerance.
var ErrNoConvergence = errors.New("irr: solver did not converge")

// IRRResult carries the solver's final iterate together with enough state
// for a caller to judge whether the number can be trusted.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"` // NPV at Rate
	Converged  bool    `json:"converged"`
}

// IRR returns the internal rate of return of a cash flow sequence.
//
// Index 0 is normally the (negative) initial outlay. The solver never fails:
// if it does not converge the last iterate is returned. Use
// IRRWithDiagnostics or IRRStrict when that matters.
func IRR(cashFlows []float64, guess float64) float64 {
	return IRRWithDiagnostics(cashFlows, guess).Rate
}

// IRRWithDiagnostics runs Newton–Raphson on NPV(rate).
//
// Each iteration evaluates NPV and its analytic derivative; it stops when
// |NPV| < 1e-6, when |NPV'| < 1e-10, or after 100 iterations.
func IRRWithDiagnostics(cashFlows []float64, guess float64) IRRResult {
	rate := guess
	for i := 0; i < irrMaxIterations; i++ {
		npv := NPV(rate, cashFlows)
		if math.Abs(npv) < irrTolerance {
			return IRRResult{Rate: rate, Iterations: i, Residual: npv, Converged: true}
		}

		d := npvDerivative(rate, cashFlows)
		if math.Abs(d) < irrDerivativeFloor {
			return IRRResult{Rate: rate, Iterations: i, Residual: npv}
		}

		rate -= npv / d
	}

	residual := NPV(rate, cashFlows)
	return IRRResult{
		Rate:       rate,
		Iterations: irrMaxIterations,
		Residual:   residual,
		Converged:  math.Abs(residual) < irrTolerance,
	}
}

// IRRStrict is IRRWithDiagnostics with non-convergence surfaced as an error.
func IRRStrict(cashFlows []float64, guess float64) (IRRResult, error) {
	res := IRRWithDiagnostics(cashFlows, guess)
	if !res.Converged {
		return res, fmt.Errorf("%w after %d iterations (rate=%.6f, residual=%.6g)",
			ErrNoConvergence, res.Iterations, res.Rate, res.Residual)
	}
	return res, nil
}
