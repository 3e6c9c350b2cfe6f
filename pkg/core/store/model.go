package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// FinancialModel is the editable record behind the model screen: the inputs
// as the user entered them plus the last computed result.
type FinancialModel struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Inputs    assumption.ModelInputs `json:"inputs"`
	Result    *valuation.Result      `json:"result,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ModelSummary is the list view of a stored model.
type ModelSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFinancialModel creates a model with a fresh ID and no result.
func NewFinancialModel(name string, in assumption.ModelInputs) *FinancialModel {
	now := time.Now().UTC()
	return &FinancialModel{
		ID:        uuid.New(),
		Name:      name,
		Inputs:    in.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetInputs replaces the entered inputs and drops the stale result.
func (m *FinancialModel) SetInputs(in assumption.ModelInputs) {
	m.Inputs = in.Clone()
	m.Result = nil
	m.UpdatedAt = time.Now().UTC()
}

// Recalculate recomputes the result from the current inputs. On failure the
// previous result is cleared so it cannot be mistaken for current.
func (m *FinancialModel) Recalculate(opts valuation.Options) error {
	res, err := valuation.Compute(m.Inputs, opts)
	m.UpdatedAt = time.Now().UTC()
	if err != nil {
		m.Result = nil
		return err
	}
	m.Result = res
	return nil
}

// Summary returns the list view of m.
func (m *FinancialModel) Summary() ModelSummary {
	return ModelSummary{ID: m.ID, Name: m.Name, UpdatedAt: m.UpdatedAt}
}
