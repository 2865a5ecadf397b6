package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/health"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
	"github.com/mkorolev/sportmonitor/internal/pkg/storage"
	"github.com/mkorolev/sportmonitor/internal/reconcile"
	"github.com/mkorolev/sportmonitor/internal/sources"
)

const (
	defaultMaxFetches = 4
	defaultCacheTTL   = 30 * time.Second
)

// Aggregator fans out to every configured source, reconciles their reports
// into one record per event and ranks the result by data quality. Source
// failures are isolated: a failing source contributes zero records and is
// flagged unhealthy for the cycle, never aborting the aggregation.
type Aggregator struct {
	sources  []sources.Source
	grouper  *reconcile.Grouper
	resolver *reconcile.Resolver
	cache    storage.ResultCache
	health   *health.Store

	maxFetches    int
	sourceTimeout func(name string) time.Duration
}

// New wires an Aggregator from config. cache may be nil to disable caching.
func New(cfg *config.Config, srcs []sources.Source, cache storage.ResultCache, healthStore *health.Store) *Aggregator {
	maxFetches := cfg.Aggregator.MaxConcurrentFetches
	if maxFetches <= 0 {
		maxFetches = defaultMaxFetches
	}

	policy := reconcile.PolicyFromConfig(cfg.Aggregator.Priorities)

	return &Aggregator{
		sources:       srcs,
		grouper:       reconcile.NewGrouper(cfg.Aggregator.FuzzyDistance),
		resolver:      reconcile.NewResolver(policy, cfg.Aggregator.FreshnessWindow),
		cache:         cache,
		health:        healthStore,
		maxFetches:    maxFetches,
		sourceTimeout: cfg.Sources.SourceTimeout,
	}
}

// Aggregate runs one fetch+resolve cycle for a sport and returns the resolved
// records sorted by descending data quality. A cache hit short-circuits the
// whole pipeline. When every source fails the result is an empty slice; any
// fallback substitution is the caller's business.
func (a *Aggregator) Aggregate(ctx context.Context, sport enums.Sport) []models.ResolvedMatch {
	key := string(sport) + ":live"
	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, key); ok {
			slog.Debug("Aggregation cache hit", "sport", sport, "matches", len(cached))
			return cached
		}
	}

	raw := a.fetchAll(ctx, sport)
	resolved := a.reconcileAll(sport, raw)

	if a.cache != nil && len(resolved) > 0 {
		a.cache.Set(ctx, key, resolved)
	}
	if a.health != nil {
		a.health.SetSnapshot(string(sport), resolved)
	}

	return resolved
}

// fetchAll runs every source through a bounded worker pool, each with its own
// timeout. A slow source never blocks a fast one; the call returns once every
// in-flight fetch finished or timed out.
func (a *Aggregator) fetchAll(ctx context.Context, sport enums.Sport) []models.RawMatch {
	pool, err := ants.NewPool(a.maxFetches)
	if err != nil {
		slog.Error("Failed to create fetch pool, falling back to serial fetch", "error", err)
		return a.fetchSerial(ctx, sport)
	}
	defer pool.Release()

	var (
		mu  sync.Mutex
		out []models.RawMatch
		wg  sync.WaitGroup
	)

	for _, src := range a.sources {
		src := src
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			records := a.fetchOne(ctx, src, sport)
			if len(records) == 0 {
				return
			}
			mu.Lock()
			out = append(out, records...)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			slog.Error("Failed to submit fetch task", "source", src.Name(), "error", err)
		}
	}

	wg.Wait()
	return out
}

func (a *Aggregator) fetchSerial(ctx context.Context, sport enums.Sport) []models.RawMatch {
	var out []models.RawMatch
	for _, src := range a.sources {
		out = append(out, a.fetchOne(ctx, src, sport)...)
	}
	return out
}

// fetchOne calls a single source with its own timeout and records the outcome
// in the health store. A timed-out fetch is treated exactly like a failed one.
func (a *Aggregator) fetchOne(ctx context.Context, src sources.Source, sport enums.Sport) []models.RawMatch {
	fetchCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout(src.Name()))
	defer cancel()

	start := time.Now()
	records, err := src.Fetch(fetchCtx, sport)
	if err != nil {
		slog.Warn("Source fetch failed", "source", src.Name(), "sport", sport, "error", err, "duration", time.Since(start))
		if a.health != nil {
			a.health.MarkSource(src.Name(), false, 0, err)
		}
		return nil
	}

	slog.Debug("Source fetch finished", "source", src.Name(), "sport", sport, "matches", len(records), "duration", time.Since(start))
	if a.health != nil {
		a.health.MarkSource(src.Name(), true, len(records), nil)
	}
	return records
}

// reconcileAll runs the synchronous reconciliation stage: group, resolve,
// score, sort. It operates on the small in-memory result set and is not
// parallelized.
func (a *Aggregator) reconcileAll(sport enums.Sport, raw []models.RawMatch) []models.ResolvedMatch {
	if len(raw) == 0 {
		return []models.ResolvedMatch{}
	}

	groups, stats := a.grouper.Group(raw)
	if stats.Dropped > 0 {
		slog.Warn("Dropped ungroupable records", "sport", sport, "dropped", stats.Dropped)
	}
	if stats.FuzzyMerged > 0 {
		slog.Debug("Merged near-miss signatures", "sport", sport, "merged", stats.FuzzyMerged)
	}

	out := make([]models.ResolvedMatch, 0, len(groups))
	degraded := 0
	for _, group := range groups {
		res := a.resolver.Resolve(group)
		if res.Degraded {
			degraded++
		}
		out = append(out, res.Match)
	}
	if degraded > 0 {
		slog.Warn("Degraded resolutions this cycle", "sport", sport, "count", degraded)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataQuality > out[j].DataQuality
	})

	slog.Info("Aggregation cycle complete",
		"sport", sport,
		"raw_records", len(raw),
		"resolved", len(out),
		"dropped", stats.Dropped,
		"degraded", degraded)

	return out
}
