package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/config"
	"ResaleEngine/internal/model"
	"ResaleEngine/internal/notifier"
)

// Appraiser is the part of appraisal.Service the scheduler needs.
type Appraiser interface {
	Appraise(ctx context.Context, req appraisal.Request) (*appraisal.Appraisal, error)
	Presets() []appraisal.Preset
}

// retrier is implemented by notifiers that can retry on their own.
type retrier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// ItemResult is the outcome of re-appraising one watch item.
type ItemResult struct {
	Item      config.WatchItem
	Appraisal *appraisal.Appraisal
	Value     float64
	Qualifies bool
	Alerted   bool
	Err       error
}

// Scheduler re-appraises the watchlist on a cron schedule and sends alerts.
type Scheduler struct {
	Cron        *cron.Cron
	Appraiser   Appraiser
	Notifier    notifier.Notifier
	Items       []config.WatchItem
	Concurrency int
	Ctx         context.Context

	state  *alertState
	logger *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ap Appraiser, n notifier.Notifier, items []config.WatchItem, concurrency int, logger *slog.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Appraiser:   ap,
		Notifier:    n,
		Items:       items,
		Concurrency: concurrency,
		Ctx:         ctx,
		state:       newAlertState(),
		logger:      logger.With("component", "scheduler"),
	}
}

// Register schedules the watchlist job.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", "items", len(s.Items))
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) watchlistTask() {
	s.RunNow(s.Ctx)
}

// RunNow re-appraises every watch item concurrently and alerts on items
// that just started qualifying. Results keep the watchlist order.
func (s *Scheduler) RunNow(ctx context.Context) []ItemResult {
	s.logger.InfoContext(ctx, "running watchlist", "items", len(s.Items))
	results := make([]ItemResult, len(s.Items))

	var g errgroup.Group
	g.SetLimit(s.Concurrency)
	for i, item := range s.Items {
		g.Go(func() error {
			results[i] = s.check(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	alerts := 0
	for _, r := range results {
		if r.Alerted {
			alerts++
		}
	}
	s.logger.InfoContext(ctx, "watchlist complete", "items", len(results), "alerts", alerts)
	return results
}

func (s *Scheduler) check(ctx context.Context, item config.WatchItem) ItemResult {
	res := ItemResult{Item: item}

	a, err := s.Appraiser.Appraise(ctx, watchRequest(item))
	if err != nil {
		res.Err = err
		if errors.Is(err, appraisal.ErrNoComps) {
			s.logger.InfoContext(ctx, "no comps for watch item", "item", item.Name)
		} else {
			s.logger.ErrorContext(ctx, "watch item appraisal failed", "item", item.Name, "error", err)
		}
		s.state.update(item.Name, false)
		return res
	}

	res.Appraisal = a
	res.Value = metricValue(item.AlertMetric, a.Analysis)
	res.Qualifies = Qualifies(item, a.Analysis)
	if s.state.update(item.Name, res.Qualifies) {
		res.Alerted = true
		s.trySend(ctx, notifier.FormatAlert(item, a, res.Value))
	}
	return res
}

// Qualifies reports whether the analysis meets the item's alert threshold
// within its risk tolerance.
func Qualifies(item config.WatchItem, r *model.AnalysisResult) bool {
	if r == nil {
		return false
	}
	maxRisk := model.RiskLevel(strings.ToUpper(item.MaxRisk))
	if item.MaxRisk == "" {
		maxRisk = model.RiskHigh
	}
	return metricValue(item.AlertMetric, r) >= item.AlertThreshold &&
		r.RiskLevel.Rank() <= maxRisk.Rank()
}

func metricValue(metric string, r *model.AnalysisResult) float64 {
	switch metric {
	case config.MetricConfidence:
		return float64(r.Confidence)
	case config.MetricMaxBuy:
		return r.MaxBuy
	default:
		return float64(r.LiquidityScore)
	}
}

func watchRequest(item config.WatchItem) appraisal.Request {
	return appraisal.Request{
		Query:     item.Query,
		Condition: item.Condition,
		Profit:    item.Profit,
		Preset:    item.Preset,
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	switch strings.ToLower(name) {
	case "/check":
		query := strings.TrimSpace(arg)
		if query == "" {
			return "Usage: /check &lt;query&gt;"
		}
		a, err := s.Appraiser.Appraise(ctx, appraisal.Request{Query: query})
		switch {
		case errors.Is(err, appraisal.ErrNoComps):
			return "No comparable sold listings for that query."
		case err != nil:
			s.logger.WarnContext(ctx, "check command failed", "query", query, "error", err)
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatAppraisal(a)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Items, s.state.snapshot())
	case "/presets":
		return notifier.FormatPresets(s.Appraiser.Presets())
	case "/run":
		results := s.RunNow(ctx)
		qualifying := 0
		for _, r := range results {
			if r.Qualifies {
				qualifying++
			}
		}
		return fmt.Sprintf("Checked %d watch items, %d qualifying.", len(results), qualifying)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	var err error
	if r, ok := s.Notifier.(retrier); ok {
		err = r.SendWithRetry(ctx, text, sendRetries)
	} else {
		err = s.Notifier.Send(ctx, text)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "send notification failed", "notifier", s.Notifier.Name(), "error", err)
	}
}
