package reconcile

import (
	"testing"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

func fixedGrouper(fuzzy int) *Grouper {
	g := NewGrouper(fuzzy)
	g.now = func() time.Time {
		return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	}
	return g
}

func TestGroup_OrderIndependent(t *testing.T) {
	g := fixedGrouper(0)

	records := []models.RawMatch{
		{Team1: "Jamaica", Team2: "Bermuda", Source: "sofascore"},
		{Team1: "Bermuda", Team2: "Jamaica", Source: "flashscore"},
	}

	groups, stats := g.Group(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %v", len(groups), groups)
	}
	for _, members := range groups {
		if len(members) != 2 {
			t.Errorf("expected both records in one group, got %d", len(members))
		}
	}
	if stats.Dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", stats.Dropped)
	}
}

func TestGroup_DifferentBookkeeperSpellings(t *testing.T) {
	g := fixedGrouper(0)

	records := []models.RawMatch{
		{Team1: "Hades", Team2: "Heist", Source: "sofascore"},
		{Team1: "RC Hades", Team2: "K.S.K. Heist", Source: "scores24"},
	}

	groups, _ := g.Group(records)
	if len(groups) != 1 {
		t.Fatalf("same match with different club-form spellings should group together, got %d groups", len(groups))
	}
}

func TestGroup_AliasTableMergesTransliterations(t *testing.T) {
	g := fixedGrouper(0)

	records := []models.RawMatch{
		{Team1: "Manchester United", Team2: "Wolverhampton", Source: "sofascore"},
		{Team1: "Man Utd", Team2: "Wolves", Source: "scores24"},
	}

	groups, _ := g.Group(records)
	if len(groups) != 1 {
		t.Fatalf("aliased names should group together, got %d groups", len(groups))
	}
}

func TestGroup_DropsUnusableRecords(t *testing.T) {
	g := fixedGrouper(0)

	records := []models.RawMatch{
		{Team1: "", Team2: "Bermuda", Source: "sofascore"},
		{Team1: "Jamaica", Team2: "", Source: "flashscore"},
		{Team1: "FC Arsenal", Team2: "Arsenal", Source: "scores24"}, // self-equal after normalization
		{Team1: "Jamaica", Team2: "Bermuda", Source: "scores24"},
	}

	groups, stats := g.Group(records)
	if stats.Dropped != 3 {
		t.Errorf("expected 3 dropped records, got %d", stats.Dropped)
	}
	if len(groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(groups))
	}
}

func TestGroup_FuzzyFallbackMergesNearMisses(t *testing.T) {
	g := fixedGrouper(2)

	records := []models.RawMatch{
		{Team1: "Grasshoppers", Team2: "Lugano", Source: "sofascore"},
		{Team1: "Grasshopers", Team2: "Lugano", Source: "scores24"}, // one edit away
	}

	groups, stats := g.Group(records)
	if len(groups) != 1 {
		t.Fatalf("near-miss spellings should merge with fuzzy fallback, got %d groups", len(groups))
	}
	if stats.FuzzyMerged != 1 {
		t.Errorf("expected 1 fuzzy merge, got %d", stats.FuzzyMerged)
	}
}

func TestGroup_FuzzyDisabledKeepsNearMissesApart(t *testing.T) {
	g := fixedGrouper(0)

	records := []models.RawMatch{
		{Team1: "Grasshoppers", Team2: "Lugano", Source: "sofascore"},
		{Team1: "Grasshopers", Team2: "Lugano", Source: "scores24"},
	}

	groups, _ := g.Group(records)
	if len(groups) != 2 {
		t.Errorf("with fuzzy disabled near-misses must stay separate, got %d groups", len(groups))
	}
}

func TestGroup_FuzzySkipsShortNames(t *testing.T) {
	g := fixedGrouper(2)

	// Two-character names are one edit apart but must never fuzzy-merge.
	records := []models.RawMatch{
		{Team1: "Ye", Team2: "Lugano", Source: "sofascore"},
		{Team1: "Yo", Team2: "Lugano", Source: "scores24"},
	}

	groups, stats := g.Group(records)
	if len(groups) != 2 {
		t.Errorf("short names must be excluded from fuzzy matching, got %d groups", len(groups))
	}
	if stats.FuzzyMerged != 0 {
		t.Errorf("expected 0 fuzzy merges, got %d", stats.FuzzyMerged)
	}
}
