package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/collector"
	"ResaleEngine/internal/config"
	"ResaleEngine/internal/logging"
)

const (
	exitOK      = 0
	exitError   = 1
	exitNoComps = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		sold        = fs.String("sold", "", "comma separated sold prices")
		active      = fs.String("active", "", "comma separated active listing prices")
		condition   = fs.String("condition", "A", "condition grade: A, B, C or Parts")
		profit      = fs.Float64("profit", 0, "target margin fraction (default from config)")
		preset      = fs.String("preset", "", "local factor preset (default from config)")
		localFactor = fs.Float64("local-factor", 0, "explicit local factor in (0, 1]")
		query       = fs.String("query", "", "look the comps up in the comps file instead of -sold/-active")
		compsFile   = fs.String("comps", "", "comps fixture file (default from config)")
		cfgPath     = fs.String("config", "", "config file (default CONFIG_PATH or configs/config.yaml)")
	)
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	cfg, err := config.Load(*cfgPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text"}, stderr)

	req := appraisal.Request{
		Query:     *query,
		Condition: *condition,
		Preset:    *preset,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "profit":
			req.Profit = profit
		case "local-factor":
			req.LocalFactor = localFactor
		}
	})

	var col *collector.Collector
	if *query != "" && *sold == "" {
		path := *compsFile
		if path == "" {
			path = cfg.Comps.File
		}
		src, err := collector.LoadStaticSource(path)
		if err != nil {
			fmt.Fprintf(stderr, "comps: %v\n", err)
			return exitError
		}
		col = collector.NewCollector(src, logger)
	} else {
		if req.Sold, err = parsePrices(*sold); err != nil {
			fmt.Fprintf(stderr, "-sold: %v\n", err)
			return exitError
		}
		if req.Active, err = parsePrices(*active); err != nil {
			fmt.Fprintf(stderr, "-active: %v\n", err)
			return exitError
		}
	}

	svc := appraisal.NewService(appraisal.Options{
		Presets:       cfg.Pricing.Presets,
		DefaultPreset: cfg.Pricing.DefaultPreset,
		DefaultProfit: cfg.Pricing.Profit(),
	}, col, nil, logger)

	a, err := svc.Appraise(ctx, req)
	if errors.Is(err, appraisal.ErrNoComps) {
		fmt.Fprintln(stderr, "no comparable sold listings")
		return exitNoComps
	}
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return exitError
	}
	return exitOK
}

// parsePrices splits a comma separated list; an empty string yields an
// empty, non-nil sample.
func parsePrices(raw string) ([]float64, error) {
	out := []float64{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", field)
		}
		out = append(out, v)
	}
	return out, nil
}
