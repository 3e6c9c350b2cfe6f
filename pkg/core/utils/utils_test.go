package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	CapacityMW float64 `json:"capacity_mw"`
	Lifetime   int     `json:"lifetime_years"`
}

func TestSmartParse_StrictJSON(t *testing.T) {
	var s sample
	out, stage, err := SmartParse([]byte(`{"capacity_mw": 10, "lifetime_years": 20}`), &s)
	require.NoError(t, err)
	assert.Equal(t, StageJSON, stage)
	assert.Equal(t, sample{CapacityMW: 10, Lifetime: 20}, s)
	assert.Contains(t, out, "capacity_mw")
}

func TestSmartParse_HJSON(t *testing.T) {
	input := `{
  # hand-written scenario
  capacity_mw: 12.5
  lifetime_years: 25
}`
	var s sample
	_, stage, err := SmartParse([]byte(input), &s)
	require.NoError(t, err)
	assert.Equal(t, StageHJSON, stage)
	assert.Equal(t, sample{CapacityMW: 12.5, Lifetime: 25}, s)
}

func TestSmartParse_Lenient(t *testing.T) {
	var s sample
	_, stage, err := SmartParse([]byte(`{'capacity_mw': 5, 'lifetime_years': 30,}`), &s)
	require.NoError(t, err)
	assert.NotEqual(t, StageJSON, stage)
	assert.Equal(t, sample{CapacityMW: 5, Lifetime: 30}, s)
}

func TestSmartParse_UnknownFieldRejected(t *testing.T) {
	var s sample
	_, _, err := SmartParse([]byte(`{"capacity_mw": 10, "capacity_kw": 10000}`), &s)
	assert.Error(t, err)
}

func TestMissingKeys(t *testing.T) {
	missing, err := MissingKeys(`{"a": 1, "b": null}`, []string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, missing)

	_, err = MissingKeys(`[1, 2]`, []string{"a"})
	assert.Error(t, err)
}

func TestRenderHTML_Table(t *testing.T) {
	md := "## Metrics\n\n| Metric | Value |\n|---|---:|\n| LCOE | 55.93 |\n"
	out, err := RenderHTML(md)
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>Metrics</h2>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td")
}

func TestWrapHTMLPage_EscapesTitle(t *testing.T) {
	page := WrapHTMLPage("A & B", "<p>x</p>")
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>A &amp; B</title>")
	assert.Contains(t, page, "<p>x</p>")
}

func TestRenderHTML_DropsRawHTML(t *testing.T) {
	out, err := RenderHTML("# Plant <script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<h1>Plant")
}
