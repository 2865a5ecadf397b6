package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/health"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
	"github.com/mkorolev/sportmonitor/internal/pkg/storage"
	"github.com/mkorolev/sportmonitor/internal/sources"
)

type stubSource struct {
	name    string
	matches []models.RawMatch
	err     error
	delay   time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Aggregator.MaxConcurrentFetches = 2
	cfg.Aggregator.FuzzyDistance = 2
	cfg.Sources.Timeout = 2 * time.Second
	return cfg
}

func rawMatch(source, team1, team2, score string, fetchedAt time.Time) models.RawMatch {
	return models.RawMatch{
		Team1:     team1,
		Team2:     team2,
		Score:     score,
		Time:      "30'",
		Sport:     string(enums.Football),
		Source:    source,
		FetchedAt: fetchedAt,
	}
}

func TestAggregateMergesSources(t *testing.T) {
	now := time.Now()
	srcs := []sources.Source{
		&stubSource{name: "sofascore", matches: []models.RawMatch{
			rawMatch("sofascore", "Arsenal", "Chelsea", "1:0", now),
		}},
		&stubSource{name: "flashscore", matches: []models.RawMatch{
			rawMatch("flashscore", "Chelsea", "Arsenal", "1:0", now),
		}},
	}

	agg := New(testConfig(), srcs, nil, nil)
	got := agg.Aggregate(context.Background(), enums.Football)

	if len(got) != 1 {
		t.Fatalf("expected 1 resolved match, got %d", len(got))
	}
	if len(got[0].Sources) != 2 {
		t.Errorf("expected 2 contributing sources, got %v", got[0].Sources)
	}
	if got[0].Score != "1:0" {
		t.Errorf("expected score 1:0, got %q", got[0].Score)
	}
}

func TestAggregateIsolatesSourceFailure(t *testing.T) {
	now := time.Now()
	store := health.NewStore()
	srcs := []sources.Source{
		&stubSource{name: "sofascore", matches: []models.RawMatch{
			rawMatch("sofascore", "Arsenal", "Chelsea", "2:1", now),
		}},
		&stubSource{name: "flashscore", err: errors.New("connection refused")},
	}

	agg := New(testConfig(), srcs, nil, store)
	got := agg.Aggregate(context.Background(), enums.Football)

	if len(got) != 1 {
		t.Fatalf("expected 1 resolved match despite a failing source, got %d", len(got))
	}
	if !store.IsReachable("sofascore") {
		t.Error("sofascore should be marked reachable")
	}
	if store.IsReachable("flashscore") {
		t.Error("flashscore should be marked unreachable")
	}
}

func TestAggregateAllSourcesFail(t *testing.T) {
	store := health.NewStore()
	srcs := []sources.Source{
		&stubSource{name: "sofascore", err: errors.New("timeout")},
		&stubSource{name: "flashscore", err: errors.New("blocked")},
	}

	agg := New(testConfig(), srcs, nil, store)
	got := agg.Aggregate(context.Background(), enums.Football)

	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
	for _, status := range store.Sources() {
		if status.Reachable {
			t.Errorf("source %s should be unreachable", status.Name)
		}
	}
}

func TestAggregateSourceTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Sources.Timeout = 50 * time.Millisecond

	now := time.Now()
	store := health.NewStore()
	srcs := []sources.Source{
		&stubSource{name: "sofascore", matches: []models.RawMatch{
			rawMatch("sofascore", "Arsenal", "Chelsea", "0:0", now),
		}},
		&stubSource{name: "flashscore", delay: time.Second, matches: []models.RawMatch{
			rawMatch("flashscore", "Arsenal", "Chelsea", "0:0", now),
		}},
	}

	agg := New(cfg, srcs, nil, store)
	got := agg.Aggregate(context.Background(), enums.Football)

	if len(got) != 1 {
		t.Fatalf("expected 1 resolved match, got %d", len(got))
	}
	if len(got[0].Sources) != 1 || got[0].Sources[0] != "sofascore" {
		t.Errorf("expected only sofascore to contribute, got %v", got[0].Sources)
	}
	if store.IsReachable("flashscore") {
		t.Error("timed out source should be unreachable")
	}
}

func TestAggregateSortsByQuality(t *testing.T) {
	now := time.Now()
	rich := rawMatch("sofascore", "Barcelona", "Real Madrid", "2:0", now)
	rich.League = "La Liga"
	rich.URL = "https://example.com/clasico"
	rich.Statistics = map[string]models.StatPair{"Владение мячом": {Home: "61%", Away: "39%"}}

	poor := rawMatch("sofascore", "Getafe", "Osasuna", "LIVE", now)
	poor.Time = "LIVE"

	srcs := []sources.Source{&stubSource{name: "sofascore", matches: []models.RawMatch{poor, rich}}}

	agg := New(testConfig(), srcs, nil, nil)
	got := agg.Aggregate(context.Background(), enums.Football)

	if len(got) != 2 {
		t.Fatalf("expected 2 resolved matches, got %d", len(got))
	}
	if got[0].Team1 != "Barcelona" {
		t.Errorf("expected the richer record first, got %q", got[0].Team1)
	}
	if got[0].DataQuality <= got[1].DataQuality {
		t.Errorf("expected descending quality order: %f then %f", got[0].DataQuality, got[1].DataQuality)
	}
}

func TestAggregateUsesCache(t *testing.T) {
	now := time.Now()
	src := &stubSource{name: "sofascore", matches: []models.RawMatch{
		rawMatch("sofascore", "Arsenal", "Chelsea", "1:1", now),
	}}
	cache := storage.NewMemoryCache(time.Minute)

	agg := New(testConfig(), []sources.Source{src}, cache, nil)

	first := agg.Aggregate(context.Background(), enums.Football)
	if len(first) != 1 {
		t.Fatalf("expected 1 match on first cycle, got %d", len(first))
	}

	// the source now errors; a cache hit must hide that
	src.err = errors.New("rate limited")
	src.matches = nil

	second := agg.Aggregate(context.Background(), enums.Football)
	if len(second) != 1 {
		t.Fatalf("expected cached match on second cycle, got %d", len(second))
	}
	if second[0].Score != "1:1" {
		t.Errorf("expected cached score 1:1, got %q", second[0].Score)
	}
}
