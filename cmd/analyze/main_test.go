package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResaleEngine/internal/appraisal"
)

// isolate points config loading at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "config.yaml"))
	return dir
}

func TestRun_Prices(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-sold", "10, 20,30", "-active", "15,25", "-profit", "0.4"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var a appraisal.Appraisal
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &a))
	assert.Equal(t, 9.6, a.Analysis.MaxBuy)
	assert.Equal(t, 52, a.Analysis.LiquidityScore)
	assert.Equal(t, "balanced", a.Preset)
}

func TestRun_NoComps(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-active", "15,25"}, &stdout, &stderr)
	assert.Equal(t, exitNoComps, code)
	assert.Empty(t, stdout.String())
}

func TestRun_InvalidInput(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitError, run(context.Background(), []string{"-sold", "10,abc"}, &stdout, &stderr))
	assert.Equal(t, exitError, run(context.Background(), []string{"-sold", "10,-5"}, &stdout, &stderr))
	assert.Equal(t, exitError, run(context.Background(), []string{"-sold", "10", "-preset", "flea"}, &stdout, &stderr))
	assert.Equal(t, exitError, run(context.Background(), []string{"-bogus"}, &stdout, &stderr))
}

func TestRun_QueryFromCompsFile(t *testing.T) {
	dir := isolate(t)
	comps := filepath.Join(dir, "comps.yaml")
	require.NoError(t, os.WriteFile(comps, []byte("items:\n  widget:\n    sold: [100, 100]\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-query", "Widget", "-comps", comps, "-local-factor", "1", "-profit", "0.5", "-condition", "B"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var a appraisal.Appraisal
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &a))
	assert.Equal(t, "static", a.Source)
	assert.Equal(t, 42.5, a.Analysis.MaxBuy)
	assert.Equal(t, -15.0, a.Analysis.ConditionImpactPercent)
}
