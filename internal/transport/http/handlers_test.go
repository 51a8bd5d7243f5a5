package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResaleEngine/internal/apierror"
	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/collector"
	"ResaleEngine/internal/config"
	"ResaleEngine/internal/logging"
	"ResaleEngine/internal/model"
)

func newTestRouter(t *testing.T, mutate func(*config.ServerConfig)) http.Handler {
	t.Helper()
	src := collector.NewStaticSource(map[string]collector.Comps{
		"switch oled": {Sold: []float64{10, 20, 30}, Active: []float64{15, 25}},
		"broken":      {Sold: []float64{-4}},
	})
	logger := logging.Discard()
	svc := appraisal.NewService(appraisal.Options{
		DefaultProfit:    model.DefaultProfit,
		BatchConcurrency: 2,
	}, collector.NewCollector(src, logger), nil, logger)

	srv := config.ServerConfig{
		BatchLimit:     3,
		RequestTimeout: time.Second,
		RateLimit:      config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	if mutate != nil {
		mutate(&srv)
	}
	return NewRouter(Deps{
		Service:    svc,
		SourceName: src.Name(),
		Server:     srv,
		Registry:   prometheus.NewRegistry(),
		Logger:     logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var e apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestAnalyze_OK(t *testing.T) {
	h := newTestRouter(t, nil)
	w := doJSON(t, h, http.MethodPost, "/api/v1/analyze",
		`{"sold_prices":[10,20,30],"active_prices":[15,25],"condition":"A","profit":0.4,"preset":"balanced"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var a appraisal.Appraisal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, appraisal.SourceRequest, a.Source)
	require.NotNil(t, a.Analysis)
	assert.Equal(t, 26.67, a.Analysis.SellTarget)
	assert.Equal(t, 19.4, a.Analysis.Undercut)
	assert.Equal(t, 52, a.Analysis.LiquidityScore)
	assert.Equal(t, model.LiquidityWeak, a.Analysis.LiquidityLabel)
	assert.Equal(t, 30.67, a.Posting.HoldMax)
}

func TestRequestID_Propagates(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestAnalyze_Errors(t *testing.T) {
	h := newTestRouter(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"sold_prices":`, http.StatusBadRequest, apierror.CodeInvalidRequest},
		{"non-positive price", `{"sold_prices":[10,0]}`, http.StatusBadRequest, apierror.CodeValidationFailed},
		{"negative active price", `{"sold_prices":[10],"active_prices":[-2]}`, http.StatusBadRequest, apierror.CodeValidationFailed},
		{"local factor out of range", `{"sold_prices":[10],"local_factor":1.2}`, http.StatusBadRequest, apierror.CodeValidationFailed},
		{"empty sold", `{"sold_prices":[],"active_prices":[5]}`, http.StatusUnprocessableEntity, apierror.CodeNoComps},
		{"nothing at all", `{}`, http.StatusUnprocessableEntity, apierror.CodeNoComps},
		{"unknown preset", `{"sold_prices":[10],"preset":"flea"}`, http.StatusBadRequest, apierror.CodeUnknownPreset},
		{"unknown query", `{"query":"gameboy"}`, http.StatusNotFound, apierror.CodeNotFound},
		{"invalid source data", `{"query":"broken"}`, http.StatusBadGateway, apierror.CodeBadSourceData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/api/v1/analyze", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeAPIError(t, w).ErrorCode)
		})
	}
}

func TestAnalyze_ValidationFieldNames(t *testing.T) {
	h := newTestRouter(t, nil)
	w := doJSON(t, h, http.MethodPost, "/api/v1/analyze", `{"sold_prices":[10,-1]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"sold_prices[1]"`)
}

func TestAnalyze_ProfitClampedNotRejected(t *testing.T) {
	h := newTestRouter(t, nil)
	w := doJSON(t, h, http.MethodPost, "/api/v1/analyze", `{"sold_prices":[100],"profit":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var a appraisal.Appraisal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, model.MaxProfit, a.Profile.Profit)
}

func TestAnalyzeBatch(t *testing.T) {
	h := newTestRouter(t, nil)
	w := doJSON(t, h, http.MethodPost, "/api/v1/analyze/batch", `{"items":[
		{"query":"switch oled"},
		{"sold_prices":[]},
		{"sold_prices":[100],"condition":"Parts"}
	]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)

	assert.Equal(t, "static", resp.Results[0].Appraisal.Source)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, apierror.CodeNoComps, resp.Results[1].Error.ErrorCode)
	assert.Equal(t, 2, resp.Results[2].Index)
	assert.Equal(t, -50.0, resp.Results[2].Appraisal.Analysis.ConditionImpactPercent)
}

func TestAnalyzeBatch_Limits(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/analyze/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	items := strings.Repeat(`{"sold_prices":[1]},`, 4)
	w = doJSON(t, h, http.MethodPost, "/api/v1/analyze/batch", `{"items":[`+strings.TrimSuffix(items, ",")+`]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, apierror.CodeBatchTooLarge, decodeAPIError(t, w).ErrorCode)

	w = doJSON(t, h, http.MethodPost, "/api/v1/analyze/batch", `{"items":[{"sold_prices":[0]}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `items[0].sold_prices[0]`)
}

func TestCompsAnalysis(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/comps/switch%20oled/analysis?condition=A&profit=0.4&preset=balanced", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var a appraisal.Appraisal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "switch oled", a.Query)
	assert.Equal(t, 9.6, a.Analysis.MaxBuy)

	w = doJSON(t, h, http.MethodGet, "/api/v1/comps/switch%20oled/analysis?local_factor=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/comps/gameboy/analysis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresetsAndHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Presets []appraisal.Preset `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Presets, 3)

	w = doJSON(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"comps_source":"static"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	doJSON(t, h, http.MethodGet, "/api/v1/presets", "")

	w := doJSON(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `resale_http_requests_total{method="GET",route="/api/v1/presets",status="200"} 1`)
}

func TestRateLimiter(t *testing.T) {
	h := newTestRouter(t, func(s *config.ServerConfig) {
		s.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	})

	first := doJSON(t, h, http.MethodGet, "/api/v1/presets", "")
	assert.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, h, http.MethodGet, "/api/v1/presets", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, apierror.CodeRateLimited, decodeAPIError(t, second).ErrorCode)

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, "/api/health", "").Code)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apierror.CodeInternal, decodeAPIError(t, w).ErrorCode)
}

func TestNotFoundRoute(t *testing.T) {
	h := newTestRouter(t, nil)
	w := doJSON(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
