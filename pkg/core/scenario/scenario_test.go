package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

const yamlScenario = `name: Desert 50 MW
description: high yield site
inputs:
  capacity_mw: 50
  p50_yield_mwh: 115000
  degradation_rate: 0.004
  lifetime_years: 25
  ppa_price: 38
  capex_per_mw: 720000
  opex_per_mw_year: 9000
  gearing_ratio: 0.75
  interest_rate: 0.055
  debt_tenor_years: 15
  target_dscr: 1.3
  tax_rate: 0.2
  discount_rate: 0.075
`

const hjsonScenario = `{
  # rooftop portfolio with itemized costs
  name: Warehouse rooftop
  inputs: {
    capacity_mw: 2
    p50_yield_mwh: 2600
    lifetime_years: 20
    ppa_price: 95
    capex_items: [
      {
        name: Modules
        amount: 900000
      }
      {
        name: Installation
        amount: 500000
        margin_pct: 5
      }
    ]
    opex_items: [
      {
        name: O&M
        amount: 24000
      }
    ]
    global_margin_pct: 10
    gearing_ratio: 0.6
    interest_rate: 0.06
    debt_tenor_years: 12
    target_dscr: 1.25
    discount_rate: 0.07
  }
}`

const jsonScenario = `{"id": "broken", "name": "Tenor too long", "inputs": {
  "capacity_mw": 1, "p50_yield_mwh": 1500, "lifetime_years": 10, "ppa_price": 60,
  "capex_per_mw": 900000, "opex_per_mw_year": 12000, "gearing_ratio": 0.5,
  "interest_rate": 0.05, "debt_tenor_years": 15, "target_dscr": 1.3, "discount_rate": 0.08}}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func scenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "utility", "desert_50mw.yaml"), yamlScenario)
	writeFile(t, filepath.Join(dir, "rooftop", "warehouse.hjson"), hjsonScenario)
	writeFile(t, filepath.Join(dir, "broken.json"), jsonScenario)
	writeFile(t, filepath.Join(dir, "README.md"), "not a scenario")
	return dir
}

func TestLoadFromDirectory(t *testing.T) {
	r := NewRegistry()
	n, err := LoadFromDirectory(r, scenarioDir(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, r.Count())

	desert, err := r.Get("utility.desert_50mw")
	require.NoError(t, err)
	assert.Equal(t, "utility", desert.Category)
	assert.Equal(t, "Desert 50 MW", desert.Name)
	assert.Equal(t, 15, desert.Inputs.DebtTenorYears)
	assert.InDelta(t, 0.004, desert.Inputs.DegradationRate, 1e-12)

	roof, err := r.Get("rooftop.warehouse")
	require.NoError(t, err)
	assert.Equal(t, "rooftop", roof.Category)
	require.Len(t, roof.Inputs.CapexItems, 2)
	require.NotNil(t, roof.Inputs.CapexItems[1].MarginPct)
	assert.InDelta(t, 5, *roof.Inputs.CapexItems[1].MarginPct, 1e-12)
	assert.Equal(t, "O&M", roof.Inputs.OpexItems[0].Name)

	broken, err := r.Get("broken")
	require.NoError(t, err)
	assert.Equal(t, "default", broken.Category)

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestLoadFromDirectory_Missing(t *testing.T) {
	_, err := LoadFromDirectory(NewRegistry(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadFile_RejectsUnknownYAMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	writeFile(t, path, "name: typo\ninputs:\n  capacity_kw: 10\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestEvaluateAll_OrderedAndIsolated(t *testing.T) {
	r := NewRegistry()
	_, err := LoadFromDirectory(r, scenarioDir(t))
	require.NoError(t, err)

	outcomes, err := EvaluateAll(context.Background(), r.List(), valuation.DefaultOptions(), 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	names := []string{outcomes[0].Name, outcomes[1].Name, outcomes[2].Name}
	assert.Equal(t, []string{"Desert 50 MW", "Tenor too long", "Warehouse rooftop"}, names)

	failed := Failed(outcomes)
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].ID)
	assert.Nil(t, failed[0].Result)
	var verr *assumption.ValidationError
	require.True(t, errors.As(failed[0].Err, &verr))
	assert.Equal(t, "debt_tenor_years", verr.Field)
	assert.NotEmpty(t, failed[0].Error)

	byID := ByID(outcomes)
	assert.NotNil(t, byID["utility.desert_50mw"].Result)
	assert.NotNil(t, byID["rooftop.warehouse"].Result)
}

func TestEvaluateAll_MatchesSequential(t *testing.T) {
	scenarios := Builtin()
	outcomes, err := EvaluateAll(context.Background(), scenarios, valuation.DefaultOptions(), 0)
	require.NoError(t, err)

	byID := ByID(outcomes)
	for _, s := range scenarios {
		want := s.Evaluate(valuation.DefaultOptions())
		require.NoError(t, want.Err)
		got := byID[s.ID]
		require.NoError(t, got.Err)
		assert.Equal(t, want.Result.Metrics, got.Result.Metrics, s.ID)
	}
}

func TestEvaluateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := EvaluateAll(ctx, Builtin(), valuation.DefaultOptions(), 1)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestDefaultRegistry_Builtin(t *testing.T) {
	r := Default()
	assert.GreaterOrEqual(t, r.Count(), 3)

	ref, err := r.Get("builtin.reference_10mw")
	require.NoError(t, err)
	out := ref.Evaluate(valuation.DefaultOptions())
	require.NoError(t, out.Err)
	assert.Equal(t, valuation.ConstraintDSCR, out.Result.Financing.BindingConstraint)

	assert.Len(t, r.ListByCategory("builtin"), 3)
}

func TestRegistry_ListReturnsCopies(t *testing.T) {
	r := NewRegistry()
	s := Reference()
	require.NoError(t, r.Register(&s))

	list := r.List()
	list[0].Inputs.CapacityMW = 999

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, got.Inputs.CapacityMW, 1e-12)
	assert.Error(t, r.Register(&Scenario{}))
}
