package valuation

import (
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
)

// LCOE is the levelized cost of energy ($/MWh).
//
// FORMULA: LCOE = (Capex + Σ Opex_t/(1+d)^t) / Σ Energy_t/(1+d)^t
//
// Returns 0 when discounted energy is not positive.
func LCOE(capex float64, opex, energyMWh []float64, discountRate float64) float64 {
	pvEnergy := calc.PresentValueOfCashFlows(energyMWh, discountRate)
	if pvEnergy <= 0 {
		return 0
	}
	pvCosts := capex + calc.PresentValueOfCashFlows(opex, discountRate)
	return pvCosts / pvEnergy
}

// ProjectNPV is −capex + Σ CFADS_t/(1+d)^t.
func ProjectNPV(capex float64, cfads []float64, discountRate float64) float64 {
	return -capex + calc.PresentValueOfCashFlows(cfads, discountRate)
}

// DSCRStats returns the minimum and average of the defined DSCR values.
// Both are nil when no year carries debt service.
func DSCRStats(series []*float64) (minDSCR, avgDSCR *float64) {
	var sum float64
	var n int
	var lo float64
	for _, v := range series {
		if v == nil {
			continue
		}
		if n == 0 || *v < lo {
			lo = *v
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil, nil
	}
	mean := sum / float64(n)
	return &lo, &mean
}
