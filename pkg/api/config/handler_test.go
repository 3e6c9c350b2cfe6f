package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/config"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/store"
)

func TestHandleConfig(t *testing.T) {
	cfg := coreconfig.Defaults()
	cfg.Redis.Password = "secret"
	h := NewHandler(cfg, store.CacheModeInMemory, "file")

	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.CacheModeInMemory, resp.CacheMode)
	assert.Equal(t, "file", resp.StoreMode)
	assert.Equal(t, "scenarios", resp.ScenarioDir)
	assert.Equal(t, projection.DefaultSeasonalCurve, resp.SeasonalCurve)
	assert.InDelta(t, 0.10, resp.IRRGuess, 1e-12)
}
