package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ResaleEngine/internal/apierror"
	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/collector"
	"ResaleEngine/internal/model"
)

const maxBodyBytes = 1 << 20

// AnalysisHandler serves the appraisal endpoints.
type AnalysisHandler struct {
	service        *appraisal.Service
	validate       *validator.Validate
	logger         *slog.Logger
	batchLimit     int
	requestTimeout time.Duration
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(service *appraisal.Service, batchLimit int, requestTimeout time.Duration, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		validate:       newValidator(),
		logger:         logger.With("handler", "analysis"),
		batchLimit:     batchLimit,
		requestTimeout: requestTimeout,
	}
}

// RegisterRoutes mounts the handler under the current router.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.Analyze)
	r.Post("/analyze/batch", h.AnalyzeBatch)
	r.Get("/comps/{query}/analysis", h.CompsAnalysis)
	r.Get("/presets", h.Presets)
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if apiErr := h.decode(w, r, &req); apiErr != nil {
		_ = render.Render(w, r, apiErr)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	a, err := h.service.Appraise(ctx, req.toService())
	if err != nil {
		_ = render.Render(w, r, h.errorFor(ctx, err, req.toService()))
		return
	}
	render.JSON(w, r, a)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch.
func (h *AnalysisHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if apiErr := h.decode(w, r, &req); apiErr != nil {
		_ = render.Render(w, r, apiErr)
		return
	}
	if len(req.Items) > h.batchLimit {
		_ = render.Render(w, r, apierror.BatchTooLarge(h.batchLimit))
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	reqs := make([]appraisal.Request, len(req.Items))
	for i, it := range req.Items {
		reqs[i] = it.toService()
	}

	resp := BatchResponse{Results: make([]BatchItem, len(reqs))}
	for i, res := range h.service.AppraiseBatch(ctx, reqs) {
		item := BatchItem{Index: i}
		if res.Err != nil {
			item.Error = h.errorFor(ctx, res.Err, reqs[i])
			resp.Failed++
		} else {
			item.Appraisal = res.Appraisal
			resp.Succeeded++
		}
		resp.Results[i] = item
	}
	render.JSON(w, r, resp)
}

// CompsAnalysis handles GET /api/v1/comps/{query}/analysis.
func (h *AnalysisHandler) CompsAnalysis(w http.ResponseWriter, r *http.Request) {
	req := appraisal.Request{
		Query:     chi.URLParam(r, "query"),
		Condition: r.URL.Query().Get("condition"),
		Preset:    r.URL.Query().Get("preset"),
	}

	var fields []apierror.FieldError
	if v, ok, err := floatParam(r, "profit"); err != nil {
		fields = append(fields, apierror.FieldError{Field: "profit", Message: "must be a number"})
	} else if ok {
		req.Profit = &v
	}
	if v, ok, err := floatParam(r, "local_factor"); err != nil || (ok && !(v > 0 && v <= 1)) {
		fields = append(fields, apierror.FieldError{Field: "local_factor", Message: "must be a number within (0, 1]"})
	} else if ok {
		req.LocalFactor = &v
	}
	if len(fields) > 0 {
		_ = render.Render(w, r, apierror.Validation(fields))
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	a, err := h.service.Appraise(ctx, req)
	if err != nil {
		_ = render.Render(w, r, h.errorFor(ctx, err, req))
		return
	}
	render.JSON(w, r, a)
}

// Presets handles GET /api/v1/presets.
func (h *AnalysisHandler) Presets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"presets": h.service.Presets()})
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, v any) *apierror.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apierror.InvalidRequest(err)
	}
	if err := h.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (h *AnalysisHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// errorFor maps service errors to API errors.
func (h *AnalysisHandler) errorFor(ctx context.Context, err error, req appraisal.Request) *apierror.APIError {
	query := req.Query
	switch {
	case errors.Is(err, appraisal.ErrNoComps):
		return apierror.NoComps(query)
	case errors.Is(err, appraisal.ErrUnknownPreset):
		return apierror.UnknownPreset(req.Preset)
	case errors.Is(err, appraisal.ErrInvalidLocalFactor):
		return apierror.Validation([]apierror.FieldError{{Field: "local_factor", Message: "must be within (0, 1]"}})
	case errors.Is(err, collector.ErrInvalidSample):
		h.logger.WarnContext(ctx, "comps source returned invalid prices", "query", query, "error", err)
		return apierror.BadSourceData(err)
	case errors.Is(err, model.ErrNonPositivePrice):
		return apierror.Validation([]apierror.FieldError{{Field: "prices", Message: err.Error()}})
	case errors.Is(err, collector.ErrUnknownItem):
		return apierror.NotFound("comps for " + strconv.Quote(query))
	case errors.Is(err, appraisal.ErrNoSource):
		return apierror.NoSource()
	case errors.Is(err, context.DeadlineExceeded):
		return apierror.Timeout()
	default:
		h.logger.ErrorContext(ctx, "appraisal failed", "query", query, "error", err)
		return apierror.Internal()
	}
}

func floatParam(r *http.Request, name string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// HealthHandler reports liveness.
type HealthHandler struct {
	source  string
	started time.Time
}

func NewHealthHandler(source string) *HealthHandler {
	return &HealthHandler{source: source, started: time.Now()}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":       "ok",
		"comps_source": h.source,
		"uptime":       time.Since(h.started).Round(time.Second).String(),
	})
}
