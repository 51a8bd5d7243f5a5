package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResaleEngine/internal/model"
)

func TestCollect_MockSource(t *testing.T) {
	c := NewCollector(&MockSource{Sold: []float64{10, 20, 30}, Active: []float64{15, 25}}, nil)

	got, err := c.Collect(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", got.Query)
	assert.Equal(t, "mock", got.Source)
	assert.Equal(t, model.PriceSample{10, 20, 30}, got.Sold)
	assert.Equal(t, model.PriceSample{15, 25}, got.Active)
}

func TestCollect_SourceError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(&MockSource{Sold: []float64{1}, ActiveErr: boom}, nil)

	_, err := c.Collect(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch active")
}

func TestCollect_RejectsNonPositivePrices(t *testing.T) {
	c := NewCollector(&MockSource{Sold: []float64{10, 0}}, nil)

	_, err := c.Collect(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSample)
	assert.ErrorIs(t, err, model.ErrNonPositivePrice)

	c = NewCollector(&MockSource{Sold: []float64{10}, Active: []float64{-5}}, nil)
	_, err = c.Collect(context.Background(), "q")
	assert.ErrorIs(t, err, ErrInvalidSample)
	assert.Contains(t, err.Error(), "active")
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(&MockSource{Sold: []float64{1}}, nil)
	_, err := c.Collect(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticSource_Lookup(t *testing.T) {
	s := NewStaticSource(map[string]Comps{
		"Nintendo Switch OLED": {Sold: []float64{210, 230}, Active: []float64{250}},
	})

	sold, err := s.FetchSold(context.Background(), "  nintendo switch oled ")
	require.NoError(t, err)
	assert.Equal(t, []float64{210, 230}, sold)

	active, err := s.FetchActive(context.Background(), "NINTENDO SWITCH OLED")
	require.NoError(t, err)
	assert.Equal(t, []float64{250}, active)

	_, err = s.FetchSold(context.Background(), "gameboy")
	assert.ErrorIs(t, err, ErrUnknownItem)

	assert.Equal(t, []string{"nintendo switch oled"}, s.Queries())
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	s := NewStaticSource(map[string]Comps{"q": {Sold: []float64{1, 2}}})
	sold, err := s.FetchSold(context.Background(), "q")
	require.NoError(t, err)
	sold[0] = 99

	again, err := s.FetchSold(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0])
}

func TestLoadStaticSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comps.yaml")
	content := `
items:
  "Sony WH-1000XM4":
    sold: [120, 135.5, 150]
    active: [140, 160]
  "iPod Classic":
    sold: [90]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadStaticSource(path)
	require.NoError(t, err)

	c := NewCollector(s, nil)
	got, err := c.Collect(context.Background(), "sony wh-1000xm4")
	require.NoError(t, err)
	assert.Equal(t, "static", got.Source)
	assert.Equal(t, model.PriceSample{120, 135.5, 150}, got.Sold)

	got, err = c.Collect(context.Background(), "ipod classic")
	require.NoError(t, err)
	assert.Empty(t, got.Active)

	_, err = LoadStaticSource(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
