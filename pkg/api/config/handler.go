package config

import (
	"encoding/json"
	"net/http"

	coreconfig "github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/config"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/store"
)

// Response is the effective engine and backend configuration. Secrets are omitted.
type Response struct {
	StrictIRR     bool                     `json:"strict_irr"`
	IRRGuess      float64                  `json:"irr_guess"`
	SeasonalCurve projection.SeasonalCurve `json:"seasonal_curve"`
	CacheMode     store.CacheMode          `json:"cache_mode"`
	StoreMode     string                   `json:"store_mode"` // "postgres" or "file"
	ScenarioDir   string                   `json:"scenario_dir"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Cfg       *coreconfig.Config
	CacheMode store.CacheMode
	StoreMode string
}

// NewHandler creates a new config handler
func NewHandler(cfg *coreconfig.Config, cacheMode store.CacheMode, storeMode string) *Handler {
	return &Handler{Cfg: cfg, CacheMode: cacheMode, StoreMode: storeMode}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	resp := Response{
		StrictIRR:     h.Cfg.Engine.StrictIRR,
		IRRGuess:      h.Cfg.Engine.IRRGuess,
		SeasonalCurve: h.Cfg.Curve(),
		CacheMode:     h.CacheMode,
		StoreMode:     h.StoreMode,
		ScenarioDir:   h.Cfg.Scenarios.Dir,
	}
	json.NewEncoder(w).Encode(resp)
}
