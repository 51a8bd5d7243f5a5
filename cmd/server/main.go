package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/collector"
	"ResaleEngine/internal/config"
	"ResaleEngine/internal/logging"
	"ResaleEngine/internal/notifier"
	"ResaleEngine/internal/recorder"
	"ResaleEngine/internal/scheduler"
	transport "ResaleEngine/internal/transport/http"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("ResaleEngine starting", "addr", cfg.Server.Addr)

	// Comps source
	var col *collector.Collector
	sourceName := "none"
	if src, err := collector.LoadStaticSource(cfg.Comps.File); err != nil {
		logger.Warn("comps file unavailable, query lookups disabled", "file", cfg.Comps.File, "error", err)
	} else {
		col = collector.NewCollector(src, logger)
		sourceName = src.Name()
		logger.Info("comps source loaded", "file", cfg.Comps.File, "queries", len(src.Queries()))
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := recorder.NewPrometheusRecorder(reg)

	svc := appraisal.NewService(appraisal.Options{
		Presets:          cfg.Pricing.Presets,
		DefaultPreset:    cfg.Pricing.DefaultPreset,
		DefaultProfit:    cfg.Pricing.Profit(),
		BatchConcurrency: cfg.Server.BatchConcurrency,
	}, col, rec, logger)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Notifier
	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram, cfg.Proxy, logger)
		n = tn
	} else {
		logger.Info("telegram not configured, alerts go to the log")
		n = notifier.NewLogNotifier(logger)
	}

	// Watchlist
	sched := scheduler.NewScheduler(ctx, svc, n, cfg.Watchlist.Items, cfg.Watchlist.Concurrency, logger)
	if len(cfg.Watchlist.Items) > 0 {
		if err := sched.Register(cfg.Watchlist.Cron); err != nil {
			logger.Error("register watchlist", "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		if cfg.Watchlist.RunOnStart {
			go sched.RunNow(ctx)
		}
	}
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	srv := transport.NewServer(cfg.Server, transport.NewRouter(transport.Deps{
		Service:    svc,
		SourceName: sourceName,
		Server:     cfg.Server,
		Registry:   reg,
		Logger:     logger,
	}))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("ResaleEngine is running")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("ResaleEngine stopped")
}
