package valuation

import (
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
)

// Constraint names the cap that set the final debt amount.
type Constraint string

const (
	ConstraintDSCR    Constraint = "dscr"
	ConstraintGearing Constraint = "gearing"
)

// FinancingStructure is the sized capital stack of the project.
type FinancingStructure struct {
	TotalCapex        float64    `json:"total_capex"`
	PVCFADSOverTenor  float64    `json:"pv_cfads_over_tenor"`
	DebtByDSCR        float64    `json:"debt_by_dscr"`
	DebtByGearing     float64    `json:"debt_by_gearing"`
	Debt              float64    `json:"debt"`
	Equity            float64    `json:"equity"`
	ActualGearing     float64    `json:"actual_gearing"`
	BindingConstraint Constraint `json:"binding_constraint"`
	AnnualDebtService float64    `json:"annual_debt_service"`
	InterestRate      float64    `json:"interest_rate"`
	TenorYears        int        `json:"tenor_years"`
	TargetDSCR        float64    `json:"target_dscr"`
}

// SizeDebt sizes project debt as the lesser of two caps.
//
//	PV(CFADS, tenor) = Σ_{t=1..tenor} CFADS(t) / (1 + interest)^t
//	Debt by DSCR     = PV(CFADS, tenor) / target DSCR
//	Debt by gearing  = total capex × gearing ratio
//	Debt             = min(both)
//	Annual service   = level payment on Debt at interest over tenor
//
// cfads must hold at least the tenor's years, starting at year 1. A negative
// PV leaves the DSCR cap at zero.
func SizeDebt(in assumption.CanonicalInputs, cfads []float64) FinancingStructure {
	tenor := in.DebtTenorYears
	if tenor > len(cfads) {
		tenor = len(cfads)
	}

	// 1. Candidate caps
	pv := calc.PresentValueOfCashFlows(cfads[:tenor], in.InterestRate)
	byDSCR := pv / in.TargetDSCR
	if byDSCR < 0 {
		byDSCR = 0
	}
	capex := in.TotalCapex()
	byGearing := capex * in.GearingRatio

	// 2. Lesser cap binds
	debt, binding := byGearing, ConstraintGearing
	if byDSCR < byGearing {
		debt, binding = byDSCR, ConstraintDSCR
	}

	// 3. Equity and level debt service
	equity := capex - debt
	service := calc.Payment(in.InterestRate, tenor, debt, 0)

	actualGearing := 0.0
	if capex > 0 {
		actualGearing = debt / capex
	}

	return FinancingStructure{
		TotalCapex:        capex,
		PVCFADSOverTenor:  pv,
		DebtByDSCR:        byDSCR,
		DebtByGearing:     byGearing,
		Debt:              debt,
		Equity:            equity,
		ActualGearing:     actualGearing,
		BindingConstraint: binding,
		AnnualDebtService: service,
		InterestRate:      in.InterestRate,
		TenorYears:        tenor,
		TargetDSCR:        in.TargetDSCR,
	}
}

// DebtServiceForYear is the level payment within the tenor and zero after it.
func (f FinancingStructure) DebtServiceForYear(t int) float64 {
	if t < 1 || t > f.TenorYears {
		return 0
	}
	return f.AnnualDebtService
}

// DSCRForYear returns CFADS / debt service, or nil when there is no debt
// service that year (pure equity, or debt already retired).
func (f FinancingStructure) DSCRForYear(t int, cfads float64) *float64 {
	service := f.DebtServiceForYear(t)
	if service == 0 {
		return nil
	}
	dscr := cfads / service
	return &dscr
}
