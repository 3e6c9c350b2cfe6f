// Package projection turns canonical model inputs into per-year and per-month
// operating figures (energy, revenue, opex, EBITDA, CFADS).
package projection

// YearProjection holds the operating figures for one project year (1-indexed).
type YearProjection struct {
	Year      int     `json:"year"`
	EnergyMWh float64 `json:"energy_mwh"`
	Revenue   float64 `json:"revenue"`
	Opex      float64 `json:"opex"`
	EBITDA    float64 `json:"ebitda"`
	CFADS     float64 `json:"cfads"`
}

// MonthProjection holds the same figures for one calendar month of a year.
type MonthProjection struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"` // 1..12
	EnergyMWh float64 `json:"energy_mwh"`
	Revenue   float64 `json:"revenue"`
	Opex      float64 `json:"opex"`
	EBITDA    float64 `json:"ebitda"`
	CFADS     float64 `json:"cfads"`
}
