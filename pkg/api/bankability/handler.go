// Package bankability exposes the financial model over HTTP: one-off
// computation, saved models with their rendered report, and scenario batches.
package bankability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/report"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/scenario"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/store"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/utils"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/validate"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

const (
	maxBodyBytes        = 1 << 20
	maxBatchConcurrency = 16
)

// requiredInputKeys must be present in every inputs document. Cost keys are
// checked by assumption.Normalize because either a rate or items will do.
var requiredInputKeys = []string{
	"capacity_mw", "p50_yield_mwh", "lifetime_years", "ppa_price",
	"gearing_ratio", "interest_rate", "debt_tenor_years", "target_dscr", "discount_rate",
}

// ModelStore persists financial models.
type ModelStore interface {
	Save(ctx context.Context, m *store.FinancialModel) error
	Load(ctx context.Context, id uuid.UUID) (*store.FinancialModel, error)
	List(ctx context.Context) ([]store.ModelSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Calculator computes a result, possibly from cache. The bool reports a cache hit.
type Calculator interface {
	Compute(ctx context.Context, in assumption.ModelInputs, opts valuation.Options) (*valuation.Result, bool, error)
}

// Handler holds dependencies for bankability endpoints
type Handler struct {
	Models    ModelStore
	Calc      Calculator
	Scenarios *scenario.Registry
	Options   valuation.Options
}

// NewHandler creates a new bankability handler
func NewHandler(models ModelStore, calculator Calculator, scenarios *scenario.Registry, opts valuation.Options) *Handler {
	return &Handler{Models: models, Calc: calculator, Scenarios: scenarios, Options: opts}
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/bankability/compute", h.HandleCompute)
	mux.HandleFunc("POST /api/bankability/batch", h.HandleBatch)
	mux.HandleFunc("GET /api/scenarios", h.HandleListScenarios)
	mux.HandleFunc("POST /api/models", h.HandleCreateModel)
	mux.HandleFunc("GET /api/models", h.HandleListModels)
	mux.HandleFunc("GET /api/models/{id}", h.HandleGetModel)
	mux.HandleFunc("PUT /api/models/{id}", h.HandleUpdateModel)
	mux.HandleFunc("DELETE /api/models/{id}", h.HandleDeleteModel)
	mux.HandleFunc("GET /api/models/{id}/report", h.HandleModelReport)
	mux.HandleFunc("GET /api/models/{id}/verify", h.HandleVerifyModel)
	mux.HandleFunc("OPTIONS /api/", handlePreflight)
}

// =============================================================================
// COMPUTE
// =============================================================================

// HandleCompute computes a result for the posted inputs without storing anything.
// Query: strict=true turns IRR non-convergence into an error.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	in, err := parseInputs(body)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	res, hit, err := h.Calc.Compute(r.Context(), in, h.options(r))
	if err != nil {
		writeComputeError(w, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	fmt.Printf("[API] compute: debt=%.0f binding=%s verdict=%s cache_hit=%v\n",
		res.Financing.Debt, res.Financing.BindingConstraint, res.Assessment.Verdict, hit)
	writeJSON(w, http.StatusOK, res)
}

// BatchRequest selects scenarios by ID and/or supplies them inline.
// An empty request evaluates every registered scenario.
type BatchRequest struct {
	ScenarioIDs []string            `json:"scenario_ids"`
	Scenarios   []scenario.Scenario `json:"scenarios"`
	Concurrency int                 `json:"concurrency"`
}

// BatchResponse lists one outcome per scenario, ordered by name.
type BatchResponse struct {
	Outcomes []scenario.Outcome `json:"outcomes"`
	Failed   int                `json:"failed"`
}

// HandleBatch evaluates several scenarios concurrently.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	var req BatchRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if _, _, err := utils.SmartParse(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid batch request: "+err.Error(), "")
			return
		}
	}

	var selected []scenario.Scenario
	for _, id := range req.ScenarioIDs {
		s, err := h.Scenarios.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error(), "")
			return
		}
		selected = append(selected, *s)
	}
	for i, s := range req.Scenarios {
		if s.ID == "" {
			s.ID = fmt.Sprintf("inline.%d", i+1)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		selected = append(selected, s)
	}
	if len(req.ScenarioIDs) == 0 && len(req.Scenarios) == 0 {
		selected = h.Scenarios.List()
	}

	if req.Concurrency > maxBatchConcurrency {
		req.Concurrency = maxBatchConcurrency
	}
	outcomes, err := scenario.EvaluateAll(r.Context(), selected, h.options(r), req.Concurrency)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error(), "")
		return
	}
	failed := len(scenario.Failed(outcomes))
	fmt.Printf("[API] batch: %d scenarios, %d failed\n", len(outcomes), failed)
	writeJSON(w, http.StatusOK, BatchResponse{Outcomes: outcomes, Failed: failed})
}

// HandleListScenarios returns the registered scenarios.
func (h *Handler) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	writeJSON(w, http.StatusOK, h.Scenarios.List())
}

// =============================================================================
// MODELS
// =============================================================================

// ModelRequest creates or edits a saved model.
type ModelRequest struct {
	Name   string          `json:"name"`
	Inputs json.RawMessage `json:"inputs"`
}

// HandleCreateModel stores a new model with its computed result.
func (h *Handler) HandleCreateModel(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	req, in, ok := h.decodeModelRequest(w, r)
	if !ok {
		return
	}
	if req.Name == "" {
		req.Name = "Untitled model"
	}

	m := store.NewFinancialModel(req.Name, in)
	if !h.recalculate(w, r, m) {
		return
	}
	if err := h.Models.Save(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	fmt.Printf("[API] created model %s (%s)\n", m.ID, m.Name)
	writeJSON(w, http.StatusCreated, m)
}

// HandleUpdateModel replaces a model's inputs (and optionally name) and recomputes.
func (h *Handler) HandleUpdateModel(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	m, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	req, in, ok := h.decodeModelRequest(w, r)
	if !ok {
		return
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	m.SetInputs(in)
	if !h.recalculate(w, r, m) {
		return
	}
	if err := h.Models.Save(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleGetModel returns a saved model with its last result.
func (h *Handler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if m, ok := h.loadModel(w, r); ok {
		writeJSON(w, http.StatusOK, m)
	}
}

// HandleListModels returns model summaries.
func (h *Handler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	list, err := h.Models.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if list == nil {
		list = []store.ModelSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDeleteModel removes a saved model.
func (h *Handler) HandleDeleteModel(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id", "id")
		return
	}
	if err := h.Models.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleModelReport renders a saved model's result.
// Query: format=markdown for the Markdown source, HTML otherwise.
func (h *Handler) HandleModelReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	m, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	if m.Result == nil {
		writeError(w, http.StatusConflict, "model has no computed result", "")
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, report.Markdown(m.Name, m.Result))
		return
	}

	page, err := report.HTML(m.Name, m.Result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

// HandleVerifyModel ties a saved model's result out against itself.
func (h *Handler) HandleVerifyModel(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	m, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	if m.Result == nil {
		writeError(w, http.StatusConflict, "model has no computed result", "")
		return
	}
	report := validate.Result(m.Result, validate.DefaultTolerance)
	if !report.AllPassed {
		fmt.Printf("[WARNING] model %s failed linkage: %v\n", m.ID, report.FailedChecks)
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) options(r *http.Request) valuation.Options {
	opts := h.Options
	if v := r.URL.Query().Get("strict"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.StrictIRR = b
		}
	}
	return opts
}

func (h *Handler) decodeModelRequest(w http.ResponseWriter, r *http.Request) (ModelRequest, assumption.ModelInputs, bool) {
	var req ModelRequest
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return req, assumption.ModelInputs{}, false
	}
	if _, _, err := utils.SmartParse(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid model request: "+err.Error(), "")
		return req, assumption.ModelInputs{}, false
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, "inputs are required", "inputs")
		return req, assumption.ModelInputs{}, false
	}
	in, err := parseInputs(req.Inputs)
	if err != nil {
		writeComputeError(w, err)
		return req, assumption.ModelInputs{}, false
	}
	return req, in, true
}

// recalculate refreshes m.Result; validation and convergence errors are
// reported to the client and nothing is saved.
func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request, m *store.FinancialModel) bool {
	res, _, err := h.Calc.Compute(r.Context(), m.Inputs, h.options(r))
	if err != nil {
		writeComputeError(w, err)
		return false
	}
	m.Result = res
	return true
}

func (h *Handler) loadModel(w http.ResponseWriter, r *http.Request) (*store.FinancialModel, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id", "id")
		return nil, false
	}
	m, err := h.Models.Load(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	return m, true
}

// inputError is a malformed or incomplete inputs document.
type inputError struct {
	msg   string
	field string
}

func (e *inputError) Error() string { return e.msg }

func parseInputs(raw []byte) (assumption.ModelInputs, error) {
	var in assumption.ModelInputs
	normalized, _, err := utils.SmartParse(raw, &in)
	if err != nil {
		return in, &inputError{msg: "invalid inputs: " + err.Error()}
	}
	missing, err := utils.MissingKeys(normalized, requiredInputKeys)
	if err != nil {
		return in, &inputError{msg: "invalid inputs: " + err.Error()}
	}
	if len(missing) > 0 {
		return in, &inputError{msg: "missing required fields: " + strings.Join(missing, ", "), field: missing[0]}
	}
	return in, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeComputeError(w http.ResponseWriter, err error) {
	var verr *assumption.ValidationError
	var ierr *inputError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error(), verr.Field)
	case errors.As(err, &ierr):
		writeError(w, http.StatusBadRequest, ierr.msg, ierr.field)
	case errors.Is(err, calc.ErrNoConvergence):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "")
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrModelNotFound) {
		writeError(w, http.StatusNotFound, err.Error(), "")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error(), "")
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	fmt.Printf("[API] %d: %s\n", status, msg)
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[WARNING] failed to encode response: %v\n", err)
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}
