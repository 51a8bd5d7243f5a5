package collector

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CompsFile is the on-disk shape of a comps fixture.
type CompsFile struct {
	Items map[string]Comps `yaml:"items"`
}

// Comps are the recorded prices for one query.
type Comps struct {
	Sold   []float64 `yaml:"sold"`
	Active []float64 `yaml:"active"`
}

// StaticSource serves comps loaded from a YAML fixture. Lookups ignore case
// and surrounding space.
type StaticSource struct {
	items map[string]Comps
}

// NewStaticSource builds a source from in-memory comps.
func NewStaticSource(items map[string]Comps) *StaticSource {
	s := &StaticSource{items: make(map[string]Comps, len(items))}
	for q, c := range items {
		s.items[normalizeQuery(q)] = c
	}
	return s
}

// LoadStaticSource reads a comps fixture file.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read comps file: %w", err)
	}
	var f CompsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse comps file: %w", err)
	}
	return NewStaticSource(f.Items), nil
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) FetchSold(ctx context.Context, query string) ([]float64, error) {
	c, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), c.Sold...), nil
}

func (s *StaticSource) FetchActive(ctx context.Context, query string) ([]float64, error) {
	c, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), c.Active...), nil
}

// Queries lists the known queries in sorted order.
func (s *StaticSource) Queries() []string {
	out := make([]string, 0, len(s.items))
	for q := range s.items {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

func (s *StaticSource) lookup(ctx context.Context, query string) (Comps, error) {
	if err := ctx.Err(); err != nil {
		return Comps{}, err
	}
	c, ok := s.items[normalizeQuery(query)]
	if !ok {
		return Comps{}, fmt.Errorf("%q: %w", query, ErrUnknownItem)
	}
	return c, nil
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
