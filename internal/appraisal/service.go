// Package appraisal resolves pricing profiles, gathers samples and runs the
// pricing engine for API, CLI and watchlist callers.
package appraisal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ResaleEngine/internal/collector"
	"ResaleEngine/internal/model"
	"ResaleEngine/internal/pricing"
	"ResaleEngine/internal/recorder"
)

var (
	// ErrNoComps means no sold listings were available, so no analysis exists.
	ErrNoComps = errors.New("no comparable sold listings")
	// ErrUnknownPreset means the requested preset is not configured.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidLocalFactor means an explicit local factor is outside (0, 1].
	ErrInvalidLocalFactor = errors.New("local factor must be within (0, 1]")
	// ErrNoSource means a query was given but no collector is configured.
	ErrNoSource = errors.New("no comps source configured")
)

// SourceRequest labels samples supplied directly by the caller.
const SourceRequest = "request"

// Request is one item to appraise. Sold and Active are used when Sold is
// non-nil; otherwise the samples are collected for Query.
type Request struct {
	Query       string
	Sold        []float64
	Active      []float64
	Condition   string
	Profit      *float64
	Preset      string
	LocalFactor *float64
}

// Appraisal is the outcome of one request.
type Appraisal struct {
	Query     string                `json:"query,omitempty"`
	Source    string                `json:"source"`
	Condition model.Condition       `json:"condition"`
	Preset    string                `json:"preset,omitempty"`
	Profile   model.PricingProfile  `json:"profile"`
	Analysis  *model.AnalysisResult `json:"analysis"`
	Posting   *model.PostingPlan    `json:"posting"`
}

// BatchResult pairs one batch entry with its outcome.
type BatchResult struct {
	Appraisal *Appraisal
	Err       error
}

// Preset describes a configured local factor.
type Preset struct {
	Name        string  `json:"name"`
	LocalFactor float64 `json:"local_factor"`
	Default     bool    `json:"default"`
}

// Options configures a Service.
type Options struct {
	Presets          map[string]float64
	DefaultPreset    string
	DefaultProfit    float64
	BatchConcurrency int
}

// Service runs appraisals. It is safe for concurrent use.
type Service struct {
	opts      Options
	collector *collector.Collector
	recorder  recorder.Recorder
	logger    *slog.Logger
}

// NewService creates a Service. coll may be nil when only caller-supplied
// samples are appraised; rec and logger default to no-ops.
func NewService(opts Options, coll *collector.Collector, rec recorder.Recorder, logger *slog.Logger) *Service {
	if opts.Presets == nil {
		opts.Presets = model.DefaultPresets()
	}
	presets := make(map[string]float64, len(opts.Presets))
	for name, f := range opts.Presets {
		presets[strings.ToLower(name)] = f
	}
	opts.Presets = presets
	if opts.DefaultPreset == "" {
		opts.DefaultPreset = model.PresetBalanced
	}
	opts.DefaultPreset = strings.ToLower(opts.DefaultPreset)
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		opts:      opts,
		collector: coll,
		recorder:  rec,
		logger:    logger.With("component", "appraisal"),
	}
}

// Presets lists the configured presets sorted by name.
func (s *Service) Presets() []Preset {
	out := make([]Preset, 0, len(s.opts.Presets))
	for name, f := range s.opts.Presets {
		out = append(out, Preset{Name: name, LocalFactor: f, Default: name == s.opts.DefaultPreset})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Profile resolves the pricing profile for req. An explicit local factor
// wins over the preset; the returned preset name is empty in that case.
func (s *Service) Profile(req Request) (model.PricingProfile, string, error) {
	profit := s.opts.DefaultProfit
	if req.Profit != nil {
		profit = *req.Profit
	}

	if req.LocalFactor != nil {
		lf := *req.LocalFactor
		if !(lf > 0 && lf <= 1) {
			return model.PricingProfile{}, "", fmt.Errorf("%v: %w", lf, ErrInvalidLocalFactor)
		}
		return model.PricingProfile{Profit: profit, LocalFactor: lf}.Normalized(), "", nil
	}

	name := strings.ToLower(strings.TrimSpace(req.Preset))
	if name == "" {
		name = s.opts.DefaultPreset
	}
	lf, ok := s.opts.Presets[name]
	if !ok {
		return model.PricingProfile{}, "", fmt.Errorf("%q: %w", req.Preset, ErrUnknownPreset)
	}
	return model.PricingProfile{Profit: profit, LocalFactor: lf}.Normalized(), name, nil
}

// Appraise resolves the profile, obtains samples and runs the engine.
// It returns ErrNoComps when the sold sample is empty.
func (s *Service) Appraise(ctx context.Context, req Request) (*Appraisal, error) {
	start := time.Now()

	profile, preset, err := s.Profile(req)
	if err != nil {
		s.recorder.RecordFailure(s.sourceName(req), recorder.ReasonInvalidInput)
		return nil, err
	}

	samples, err := s.samples(ctx, req)
	if err != nil {
		return nil, err
	}

	cond := model.ParseCondition(req.Condition)
	if req.Condition != "" && !model.Condition(req.Condition).Valid() {
		s.logger.WarnContext(ctx, "unknown condition grade, pricing as A", "condition", req.Condition)
	}
	result := pricing.Analyze(samples.Sold, samples.Active, cond, profile)
	if result == nil {
		s.recorder.RecordFailure(samples.Source, recorder.ReasonNoComps)
		if req.Query != "" {
			return nil, fmt.Errorf("%q: %w", req.Query, ErrNoComps)
		}
		return nil, ErrNoComps
	}

	elapsed := time.Since(start)
	s.recorder.RecordAppraisal(&recorder.AppraisalEvent{
		Source:    samples.Source,
		Condition: cond,
		Result:    result,
		Duration:  elapsed,
	})
	s.logger.DebugContext(ctx, "appraisal complete",
		"query", req.Query,
		"source", samples.Source,
		"sold", result.SoldCount,
		"active", result.ActiveCount,
		"risk", result.RiskLevel,
		"liquidity", result.LiquidityScore,
		"duration", elapsed,
	)

	return &Appraisal{
		Query:     req.Query,
		Source:    samples.Source,
		Condition: cond,
		Preset:    preset,
		Profile:   profile,
		Analysis:  result,
		Posting:   pricing.Posting(result),
	}, nil
}

// AppraiseBatch appraises every request concurrently. Results keep the
// request order and per-item failures are reported in place.
func (s *Service) AppraiseBatch(ctx context.Context, reqs []Request) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)
	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			a, err := s.Appraise(ctx, reqs[i])
			results[i] = BatchResult{Appraisal: a, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) samples(ctx context.Context, req Request) (*model.MarketSamples, error) {
	if req.Sold != nil {
		sold, active := model.PriceSample(req.Sold), model.PriceSample(req.Active)
		if err := sold.Validate(); err != nil {
			s.recorder.RecordFailure(SourceRequest, recorder.ReasonInvalidInput)
			return nil, fmt.Errorf("sold prices: %w", err)
		}
		if err := active.Validate(); err != nil {
			s.recorder.RecordFailure(SourceRequest, recorder.ReasonInvalidInput)
			return nil, fmt.Errorf("active prices: %w", err)
		}
		return &model.MarketSamples{Query: req.Query, Source: SourceRequest, Sold: sold, Active: active}, nil
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrNoComps
	}
	if s.collector == nil {
		return nil, ErrNoSource
	}
	samples, err := s.collector.Collect(ctx, req.Query)
	if err != nil {
		s.recorder.RecordFailure(s.collector.Source.Name(), recorder.ReasonCollect)
		return nil, err
	}
	return samples, nil
}

func (s *Service) sourceName(req Request) string {
	if req.Sold != nil || s.collector == nil {
		return SourceRequest
	}
	return s.collector.Source.Name()
}
