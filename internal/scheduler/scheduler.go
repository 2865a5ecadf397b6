package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkorolev/sportmonitor/internal/aggregator"
	"github.com/mkorolev/sportmonitor/internal/analysis"
	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/report"
)

const (
	defaultInterval   = 5 * time.Minute
	defaultMaxMatches = 10
)

// Scheduler drives the periodic aggregate → analyze → report cycle for each
// configured sport. Reporting and analysis are best-effort: their failures are
// logged and never stop the loop.
type Scheduler struct {
	agg      *aggregator.Aggregator
	analyst  *analysis.Client
	reporter *report.TelegramReporter

	interval   time.Duration
	activeFrom string
	activeTo   string
	sports     []enums.Sport
	maxMatches int

	now func() time.Time
}

func New(cfg *config.SchedulerConfig, agg *aggregator.Aggregator, analyst *analysis.Client, reporter *report.TelegramReporter) (*Scheduler, error) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxMatches := cfg.MaxMatches
	if maxMatches <= 0 {
		maxMatches = defaultMaxMatches
	}

	var sports []enums.Sport
	for _, name := range cfg.Sports {
		sport, ok := enums.ParseSport(name)
		if !ok {
			return nil, fmt.Errorf("unknown sport in config: %q", name)
		}
		sports = append(sports, sport)
	}
	if len(sports) == 0 {
		sports = []enums.Sport{enums.Football}
	}

	for _, v := range []string{cfg.ActiveFrom, cfg.ActiveTo} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return nil, fmt.Errorf("invalid active hours value %q: %w", v, err)
		}
	}

	return &Scheduler{
		agg:        agg,
		analyst:    analyst,
		reporter:   reporter,
		interval:   interval,
		activeFrom: cfg.ActiveFrom,
		activeTo:   cfg.ActiveTo,
		sports:     sports,
		maxMatches: maxMatches,
		now:        time.Now,
	}, nil
}

// Run blocks until ctx is cancelled, executing one cycle immediately and then
// one per interval.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("Scheduler started",
		"interval", s.interval,
		"sports", s.sports,
		"active_from", s.activeFrom,
		"active_to", s.activeTo)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// RunOnce executes a single cycle regardless of the active-hours window.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, sport := range s.sports {
		s.processSport(ctx, sport)
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if !s.withinActiveHours(s.now()) {
		slog.Debug("Outside active hours, skipping cycle")
		return
	}
	s.RunOnce(ctx)
}

func (s *Scheduler) processSport(ctx context.Context, sport enums.Sport) {
	matches := s.agg.Aggregate(ctx, sport)
	if len(matches) == 0 {
		slog.Info("No live matches this cycle", "sport", sport)
		return
	}
	if len(matches) > s.maxMatches {
		matches = matches[:s.maxMatches]
	}

	var summary string
	if s.analyst != nil {
		summary = s.analyst.Summarize(ctx, string(sport), matches)
	}

	if s.reporter != nil {
		if err := s.reporter.SendDigest(ctx, string(sport), matches, summary); err != nil {
			slog.Warn("Failed to send digest", "sport", sport, "error", err)
		}
	}
}

// withinActiveHours reports whether t falls inside the configured window.
// An empty window means always active; a window crossing midnight
// (e.g. 22:00–06:00) is handled.
func (s *Scheduler) withinActiveHours(t time.Time) bool {
	if s.activeFrom == "" || s.activeTo == "" {
		return true
	}

	from, err := time.Parse("15:04", s.activeFrom)
	if err != nil {
		return true
	}
	to, err := time.Parse("15:04", s.activeTo)
	if err != nil {
		return true
	}

	cur := t.Hour()*60 + t.Minute()
	start := from.Hour()*60 + from.Minute()
	end := to.Hour()*60 + to.Minute()

	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}
