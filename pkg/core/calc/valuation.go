// Package calc provides deterministic financial primitives for the bankability model.
// This file implements discounting and annuity math used by the sizing and metrics layers.
package calc

import (
	"math"
)

// =============================================================================
// DISCOUNTING
// =============================================================================

// PresentValue calculates PV of a single cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// PresentValueOfCashFlows calculates PV of a series of end-of-period cash flows.
//
// FORMULA: PV = Σ [ CF_t / (1 + r)^t ]  for t = 1..n
//
// The first element is discounted one full period (ordinary annuity timing).
func PresentValueOfCashFlows(cashFlows []float64, discountRate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += cf / math.Pow(1+discountRate, float64(t+1))
	}
	return pv
}

// NPV calculates Net Present Value of a cash flow sequence indexed from period 0.
//
// FORMULA: NPV = Σ [ CF_i / (1 + r)^i ]  for i = 0..n
//
// Unlike PresentValueOfCashFlows, element 0 is not discounted. This is the
// function the IRR solver drives to zero.
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for i, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(i))
	}
	return npv
}

// npvDerivative is d(NPV)/d(rate) = -Σ i·CF_i / (1+r)^(i+1)
func npvDerivative(rate float64, cashFlows []float64) float64 {
	var d float64
	for i, cf := range cashFlows {
		if i == 0 {
			continue
		}
		d -= float64(i) * cf / math.Pow(1+rate, float64(i+1))
	}
	return d
}

// =============================================================================
// ANNUITIES
// =============================================================================

// Payment calculates the level periodic payment that amortizes a principal.
//
// FORMULA: PMT = r × (P × (1 + r)^n + F) / ((1 + r)^n − 1)
//
// Where:
//   - r = periodic rate
//   - n = number of periods
//   - P = principal
//   - F = residual value settled alongside the principal (0 for a plain loan)
//
// With r = 0 the payment is the linear split (P + F) / n.
func Payment(rate float64, periods int, principal, residual float64) float64 {
	if periods <= 0 {
		return 0
	}
	n := float64(periods)
	if rate == 0 {
		return (principal + residual) / n
	}
	growth := math.Pow(1+rate, n)
	return rate * (principal*growth + residual) / (growth - 1)
}

// PresentValueOfAnnuity is the inverse of Payment for a plain loan.
//
// FORMULA: PV = PMT × (1 − (1 + r)^−n) / r
//
// With r = 0 the result is PMT × n.
func PresentValueOfAnnuity(rate float64, periods int, payment float64) float64 {
	if periods <= 0 {
		return 0
	}
	n := float64(periods)
	if rate == 0 {
		return payment * n
	}
	return payment * (1 - math.Pow(1+rate, -n)) / rate
}

// AmortizationRow is one period of a level-payment schedule.
type AmortizationRow struct {
	Period    int     `json:"period"`
	Opening   float64 `json:"opening"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Closing   float64 `json:"closing"`
}

// AmortizationSchedule rolls a loan forward at a fixed payment.
// The closing balance of the last row is zero (to floating tolerance) when
// payment = Payment(rate, periods, principal, 0).
func AmortizationSchedule(rate float64, periods int, principal, payment float64) []AmortizationRow {
	rows := make([]AmortizationRow, 0, periods)
	balance := principal
	for p := 1; p <= periods; p++ {
		interest := balance * rate
		repaid := payment - interest
		closing := balance - repaid
		rows = append(rows, AmortizationRow{
			Period:    p,
			Opening:   balance,
			Interest:  interest,
			Principal: repaid,
			Closing:   closing,
		})
		balance = closing
	}
	return rows
}
