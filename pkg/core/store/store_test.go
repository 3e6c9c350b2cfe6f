package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

func referenceInputs() assumption.ModelInputs {
	return assumption.ModelInputs{
		CapacityMW:     10,
		P50YieldMWh:    20000,
		LifetimeYears:  20,
		PPAPrice:       50,
		CapexPerMW:     1_000_000,
		OpexPerMWYear:  10_000,
		GearingRatio:   0.7,
		InterestRate:   0.05,
		DebtTenorYears: 10,
		TargetDSCR:     1.3,
		DiscountRate:   0.08,
	}
}

// =============================================================================
// FINANCIAL MODEL
// =============================================================================

func TestFinancialModel_Recalculate(t *testing.T) {
	m := NewFinancialModel("Reference", referenceInputs())
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Nil(t, m.Result)

	require.NoError(t, m.Recalculate(valuation.DefaultOptions()))
	require.NotNil(t, m.Result)
	assert.Equal(t, valuation.ConstraintDSCR, m.Result.Financing.BindingConstraint)

	bad := referenceInputs()
	bad.TargetDSCR = 0
	m.SetInputs(bad)
	assert.Nil(t, m.Result)

	err := m.Recalculate(valuation.DefaultOptions())
	var verr *assumption.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "target_dscr", verr.Field)
	assert.Nil(t, m.Result)
}

func TestFinancialModel_KeepsEnteredInputs(t *testing.T) {
	in := referenceInputs()
	in.CapexItems = []assumption.CostItem{{Name: "EPC", Amount: 9_000_000}}
	m := NewFinancialModel("Itemized", in)

	in.CapexItems[0].Amount = 1
	assert.InDelta(t, 9_000_000, m.Inputs.CapexItems[0].Amount, 1e-9)

	require.NoError(t, m.Recalculate(valuation.DefaultOptions()))
	assert.Len(t, m.Inputs.CapexItems, 1)
	assert.Equal(t, assumption.CostBasisItemized, m.Result.Summary.CapexSource)
}

// =============================================================================
// FILE-BACKED REPOSITORY
// =============================================================================

func TestModelRepo_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewModelRepo(nil, t.TempDir())

	m := NewFinancialModel("Reference", referenceInputs())
	require.NoError(t, m.Recalculate(valuation.DefaultOptions()))
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.Inputs, got.Inputs)
	require.NotNil(t, got.Result)
	assert.Equal(t, m.Result.Metrics, got.Result.Metrics)
	assert.Len(t, got.Result.Monthly, 240)

	older := NewFinancialModel("Older", referenceInputs())
	older.UpdatedAt = m.UpdatedAt.Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.Load(ctx, m.ID)
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), ErrModelNotFound)
}

func TestModelRepo_RejectsNilID(t *testing.T) {
	repo := NewModelRepo(nil, t.TempDir())
	assert.Error(t, repo.Save(context.Background(), &FinancialModel{}))
}

// =============================================================================
// RESULT CACHE
// =============================================================================

func TestFingerprint(t *testing.T) {
	a, err := assumption.Normalize(referenceInputs())
	require.NoError(t, err)

	changed := referenceInputs()
	changed.PPAPrice = 51
	b, err := assumption.Normalize(changed)
	require.NoError(t, err)

	keyA, err := Fingerprint(a, valuation.DefaultOptions())
	require.NoError(t, err)
	keyA2, err := Fingerprint(a, valuation.Options{})
	require.NoError(t, err)
	keyB, err := Fingerprint(b, valuation.DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, keyA, 64)
	assert.Equal(t, keyA, keyA2)
	assert.NotEqual(t, keyA, keyB)

	flat := valuation.DefaultOptions()
	flat.SeasonalCurve = projection.FlatSeasonalCurve()
	keyFlat, err := Fingerprint(a, flat)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, keyFlat)

	strict := valuation.DefaultOptions()
	strict.StrictIRR = true
	keyStrict, err := Fingerprint(a, strict)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, keyStrict)
}

func TestResultCache_InMemory(t *testing.T) {
	ctx := context.Background()
	cache := NewResultCache(nil, 0)
	assert.Equal(t, CacheModeInMemory, cache.Mode())

	first, hit, err := cache.Compute(ctx, referenceInputs(), valuation.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cache.Compute(ctx, referenceInputs(), valuation.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Financing, second.Financing)
}

func TestResultCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewResultCache(nil, 50*time.Millisecond)

	res, err := valuation.Compute(referenceInputs(), valuation.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "k", res))

	_, hit, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)

	time.Sleep(100 * time.Millisecond)
	_, hit, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResultCache_ValidationNotCached(t *testing.T) {
	cache := NewResultCache(nil, 0)
	bad := referenceInputs()
	bad.LifetimeYears = 0

	_, _, err := cache.Compute(context.Background(), bad, valuation.DefaultOptions())
	var verr *assumption.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "lifetime_years", verr.Field)
}
