package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ResaleEngine/internal/model"
)

// ErrInvalidSample is returned when a source hands back an unusable price.
var ErrInvalidSample = errors.New("invalid price sample")

// MockSource returns fixed prices for every query, for development and testing.
type MockSource struct {
	Sold      []float64
	Active    []float64
	SoldErr   error
	ActiveErr error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchSold(ctx context.Context, _ string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.SoldErr != nil {
		return nil, m.SoldErr
	}
	return append([]float64(nil), m.Sold...), nil
}

func (m *MockSource) FetchActive(ctx context.Context, _ string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ActiveErr != nil {
		return nil, m.ActiveErr
	}
	return append([]float64(nil), m.Active...), nil
}

// Collector fetches and validates comps from a Source.
type Collector struct {
	Source Source
	logger *slog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(source Source, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{Source: source, logger: logger.With("component", "collector")}
}

// Collect fetches the sold and active samples for query concurrently.
func (c *Collector) Collect(ctx context.Context, query string) (*model.MarketSamples, error) {
	var sold, active []float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.Source.FetchSold(gctx, query)
		if err != nil {
			return fmt.Errorf("fetch sold: %w", err)
		}
		sold = s
		return nil
	})
	g.Go(func() error {
		a, err := c.Source.FetchActive(gctx, query)
		if err != nil {
			return fmt.Errorf("fetch active: %w", err)
		}
		active = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect %q from %s: %w", query, c.Source.Name(), err)
	}

	if err := model.PriceSample(sold).Validate(); err != nil {
		return nil, fmt.Errorf("%q sold: %w: %w", query, ErrInvalidSample, err)
	}
	if err := model.PriceSample(active).Validate(); err != nil {
		return nil, fmt.Errorf("%q active: %w: %w", query, ErrInvalidSample, err)
	}

	c.logger.DebugContext(ctx, "comps collected",
		"query", query,
		"source", c.Source.Name(),
		"sold", len(sold),
		"active", len(active),
	)

	return &model.MarketSamples{
		Query:  query,
		Source: c.Source.Name(),
		Sold:   sold,
		Active: active,
	}, nil
}
