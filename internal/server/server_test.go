package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/goleak"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/metrics"
	"github.com/procolombia/territory-profile/internal/report"
	"github.com/procolombia/territory-profile/internal/territory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, Options{})
}

func newTestServerWith(t *testing.T, opts Options) *Server {
	t.Helper()

	indicators := frame.New(
		[]string{territory.ColCode, territory.ColPopulation, territory.ColYouth, territory.ColZOMAC},
		[][]any{{"81001", 96814.0, 32.4, int64(1)}},
	)
	fabric := frame.New(
		[]string{territory.ColCode, territory.ColRegion, territory.ColTerritory, territory.ColChain, territory.ColSize, territory.ColBusinessCount},
		[][]any{
			{"81001", "Arauca", "Arauca", "Turismo", "Micro", 5.0},
			{"81001", "Arauca", "Arauca", "Turismo", "Pequeña", 3.0},
			{"05001", "Antioquia", "Medellín", "Metalmecánica", "Grande", 40.0},
			{"99999", "No determinado", "Sin municipio", "Otros", "Micro", 1.0},
		},
	)
	locations := frame.New(
		[]string{"Código .1", "Nombre", "Nombre.1", territory.ColLatitude, territory.ColLongitude},
		[][]any{{"81001", "ARAUCA", "ARAUCA", 7.0847, -70.7591}},
	)

	data, err := territory.NewContext(indicators, fabric, locations, territory.Options{
		DefaultRegion:  "Arauca",
		ExcludedRegion: "No determinado",
	})
	require.NoError(t, err)

	cat, err := metrics.DefaultCatalog()
	require.NoError(t, err)

	return New(data, cat, opts)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func profileURL(path, region, name string) string {
	q := url.Values{}
	if region != "" {
		q.Set("region", region)
	}
	if name != "" {
		q.Set("territory", name)
	}
	return path + "?" + q.Encode()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rr := get(t, srv.Handler(), "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, srv.data.Snapshot(), body["snapshot"])
}

func TestRegions(t *testing.T) {
	rr := get(t, newTestServer(t).Handler(), "/api/regions")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"regions":["Antioquia","Arauca"],"default":"Arauca"}`, rr.Body.String())
}

func TestTerritories(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := get(t, h, "/api/regions/Arauca/territories")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"territories":["Arauca"]}`, rr.Body.String())

	rr = get(t, h, "/api/regions/"+url.PathEscape("No determinado")+"/territories")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProfile(t *testing.T) {
	rr := get(t, newTestServer(t).Handler(), profileURL("/api/profile", "Arauca", "Arauca"))
	require.Equal(t, http.StatusOK, rr.Code)

	var p metrics.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Perfil territorio: Arauca - Arauca", p.Title)
	assert.Equal(t, "81001", p.Code)
	assert.Equal(t, "Es territorio ZOMAC", p.ZOMAC.Text)

	var youth, gender metrics.PieChart
	for _, pie := range p.Pies {
		switch pie.ID {
		case "youth":
			youth = pie
		case "gender":
			gender = pie
		}
	}
	require.Len(t, youth.Slices, 2)
	assert.InDelta(t, 67.6, youth.Slices[1].Value, 1e-9)
	assert.True(t, gender.NoData)

	var size metrics.BarChart
	for _, bar := range p.Bars {
		if bar.ID == "size" {
			size = bar
		}
	}
	assert.InDelta(t, 8.0, size.Total, 1e-9)
}

func TestProfile_MissingParams(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := get(t, h, profileURL("/api/profile", "Arauca", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(t, h, "/api/profile")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "region and territory are required")
}

func TestProfile_UnknownPair(t *testing.T) {
	rr := get(t, newTestServer(t).Handler(), profileURL("/api/profile", "Arauca", "Medellín"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestReport(t *testing.T) {
	rr := get(t, newTestServer(t).Handler(), profileURL("/api/report", "Arauca", "Arauca"))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="perfil-81001.xlsx"`)

	f, err := xlsx.OpenBinary(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, report.SummarySheet, f.Sheets[0].Name)
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/regions", nil)
	req.Header.Set("Origin", "https://tablero.example.org")
	rr := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestReport_RateLimited(t *testing.T) {
	h := newTestServerWith(t, Options{ReportRate: 0.001, ReportBurst: 1}).Handler()
	target := profileURL("/api/report", "Arauca", "Arauca")

	rr := get(t, h, target)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, h, target)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	// Profiles are not throttled.
	rr = get(t, h, profileURL("/api/profile", "Arauca", "Arauca"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTerritories_EscapedRegionName(t *testing.T) {
	indicators := frame.New([]string{territory.ColCode}, [][]any{{"11001"}})
	fabric := frame.New(
		[]string{territory.ColCode, territory.ColRegion, territory.ColTerritory, territory.ColBusinessCount},
		[][]any{{"11001", "Bogotá, D.C.", "Bogotá, D.C.", 10.0}},
	)
	locations := frame.New([]string{"Código .1", "Nombre", "Nombre.1", territory.ColLatitude, territory.ColLongitude}, nil)
	data, err := territory.NewContext(indicators, fabric, locations, territory.Options{})
	require.NoError(t, err)
	cat, err := metrics.DefaultCatalog()
	require.NoError(t, err)
	h := New(data, cat, Options{}).Handler()

	rr := get(t, h, "/api/regions/"+url.PathEscape("Bogotá, D.C.")+"/territories")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"territories":["Bogotá, D.C."]}`, rr.Body.String())
}
