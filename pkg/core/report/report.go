// Package report renders a computed bankability result as Markdown or HTML.
// It formats what valuation produced and never recomputes anything.
package report

import (
	"fmt"
	"strings"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/utils"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Markdown renders the full document: summary, financing, key metrics,
// assessment, the yearly table and the monthly table for year 1.
func Markdown(title string, res *valuation.Result) string {
	var sb strings.Builder

	if title == "" {
		title = "Bankability Report"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	writeSummary(&sb, res)
	writeFinancing(&sb, res)
	writeMetrics(&sb, res)
	writeAssessment(&sb, res)
	writeYearly(&sb, res)
	writeMonthly(&sb, res, 1)

	return sb.String()
}

// HTML renders Markdown(title, res) through goldmark into a standalone page.
func HTML(title string, res *valuation.Result) (string, error) {
	body, err := utils.RenderHTML(Markdown(title, res))
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	if title == "" {
		title = "Bankability Report"
	}
	return utils.WrapHTMLPage(title, body), nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func writeSummary(sb *strings.Builder, res *valuation.Result) {
	s := res.Summary
	sb.WriteString("## Project Summary\n\n")
	sb.WriteString("| Item | Value |\n|---|---:|\n")
	row(sb, "Capacity (MW)", Number(s.CapacityMW, 2))
	row(sb, "P50 yield (MWh/yr)", Money(s.P50YieldMWh))
	row(sb, "Lifetime (years)", fmt.Sprintf("%d", s.LifetimeYears))
	row(sb, "PPA price ($/MWh)", Number(s.PPAPrice, 2))
	row(sb, fmt.Sprintf("Capex per MW (%s)", s.CapexSource), Money(s.CapexPerMW))
	row(sb, fmt.Sprintf("Opex per MW-year (%s)", s.OpexSource), Money(s.OpexPerMWYear))
	row(sb, "Total capex", Money(s.TotalCapex))
	row(sb, "Discount rate", Percent(s.DiscountRate))
	row(sb, "Tax rate", Percent(s.TaxRate))
	row(sb, "Degradation", Percent(s.DegradationRate))
	sb.WriteString("\n")
}

func writeFinancing(sb *strings.Builder, res *valuation.Result) {
	f := res.Financing
	sb.WriteString("## Financing Structure\n\n")
	sb.WriteString("| Item | Value |\n|---|---:|\n")
	row(sb, "PV of CFADS over tenor", Money(f.PVCFADSOverTenor))
	row(sb, "Debt capacity (DSCR)", Money(f.DebtByDSCR))
	row(sb, "Debt capacity (gearing)", Money(f.DebtByGearing))
	row(sb, "Debt", Money(f.Debt))
	row(sb, "Equity", Money(f.Equity))
	row(sb, "Actual gearing", Percent(f.ActualGearing))
	row(sb, "Binding constraint", string(f.BindingConstraint))
	row(sb, "Annual debt service", Money(f.AnnualDebtService))
	row(sb, "Interest rate", Percent(f.InterestRate))
	row(sb, "Tenor (years)", fmt.Sprintf("%d", f.TenorYears))
	row(sb, "Target DSCR", Ratio(&f.TargetDSCR))
	sb.WriteString("\n")
}

func writeMetrics(sb *strings.Builder, res *valuation.Result) {
	m := res.Metrics
	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n|---|---:|\n")
	row(sb, "Project IRR", irrCell(m.ProjectIRR, res.Diagnostics.Project.Converged))
	row(sb, "Equity IRR", irrCell(m.EquityIRR, res.Diagnostics.Equity.Converged))
	row(sb, "LCOE ($/MWh)", Number(m.LCOE, 2))
	row(sb, "NPV", Money(m.NPV))
	row(sb, "Min DSCR", Ratio(m.MinDSCR))
	row(sb, "Avg DSCR", Ratio(m.AvgDSCR))
	row(sb, "Project payback (years)", Years(m.ProjectPaybackYears))
	row(sb, "Equity payback (years)", Years(m.EquityPaybackYears))
	sb.WriteString("\n")
}

func writeAssessment(sb *strings.Builder, res *valuation.Result) {
	a := res.Assessment
	sb.WriteString("## Assessment\n\n")
	fmt.Fprintf(sb, "- Project IRR: **%s**\n", a.ProjectIRR)
	fmt.Fprintf(sb, "- Equity IRR: **%s**\n", a.EquityIRR)
	fmt.Fprintf(sb, "- DSCR: **%s**\n", a.DSCR)
	fmt.Fprintf(sb, "\nVerdict: **%s**. %s\n\n", a.Verdict, a.Recommendation)
}

func writeYearly(sb *strings.Builder, res *valuation.Result) {
	sb.WriteString("## Yearly Cash Flows\n\n")
	sb.WriteString("| Year | Energy (MWh) | Revenue | Opex | EBITDA | CFADS | Debt service | DSCR | FCFE | Cumulative FCFE |\n")
	sb.WriteString("|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, y := range res.Yearly {
		fmt.Fprintf(sb, "| %d | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			y.Year, Money(y.EnergyMWh), Money(y.Revenue), Money(y.Opex), Money(y.EBITDA),
			Money(y.CFADS), Money(y.DebtService), Ratio(y.DSCR), Money(y.FCFE), Money(y.CumulativeFCFE))
	}
	sb.WriteString("\n")
}

func writeMonthly(sb *strings.Builder, res *valuation.Result, year int) {
	fmt.Fprintf(sb, "## Monthly Cash Flows (Year %d)\n\n", year)
	sb.WriteString("| Month | Energy (MWh) | Revenue | Opex | CFADS | Debt service | DSCR | FCFE |\n")
	sb.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, m := range res.Monthly {
		if m.Year != year {
			continue
		}
		fmt.Fprintf(sb, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			monthNames[m.Month-1], Money(m.EnergyMWh), Money(m.Revenue), Money(m.Opex),
			Money(m.CFADS), Money(m.DebtService), Ratio(m.DSCR), Money(m.FCFE))
	}
	sb.WriteString("\n")
}

func row(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", label, value)
}

func irrCell(rate float64, converged bool) string {
	if !converged {
		return Percent(rate) + " (not converged)"
	}
	return Percent(rate)
}
