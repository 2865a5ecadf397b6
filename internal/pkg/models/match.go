package models

import "time"

// ScoreLive is the placeholder score/time value sources report while the
// real value is unknown.
const ScoreLive = "LIVE"

// StatPair holds one statistic reported for both sides of a match.
type StatPair struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// RawMatch is one source's report of one live event at one point in time.
// Field values are exactly as the source reported them (team names not yet
// normalized, score/time free text). Immutable once built.
type RawMatch struct {
	Team1      string              `json:"team1"`
	Team2      string              `json:"team2"`
	Score      string              `json:"score"` // "H:A" or "LIVE"
	Time       string              `json:"time"`  // "67'", "90+3'", "HT", "FT", "LIVE"
	League     string              `json:"league,omitempty"`
	URL        string              `json:"url,omitempty"`
	Odds       map[string]string   `json:"odds,omitempty"`       // market -> decimal odds string, e.g. "П1" -> "2.05"
	Statistics map[string]StatPair `json:"statistics,omitempty"` // stat name -> per-side values
	Sport      string              `json:"sport"`
	Source     string              `json:"source"`
	FetchedAt  time.Time           `json:"fetched_at"`
}

// ConflictResolution describes how a group of raw records was merged.
type ConflictResolution struct {
	SourceCount int      `json:"source_count"`
	Conflicts   []string `json:"conflicts,omitempty"` // e.g. "score_conflict: [1:0 1:1]"
	Degraded    bool     `json:"degraded,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// ResolvedMatch is the canonical merged record for one real-world event.
// Built once per aggregation cycle, never mutated afterwards.
type ResolvedMatch struct {
	Team1      string              `json:"team1"`
	Team2      string              `json:"team2"`
	Score      string              `json:"score"`
	Time       string              `json:"time"`
	League     string              `json:"league,omitempty"`
	URL        string              `json:"url,omitempty"`
	Odds       map[string]string   `json:"odds,omitempty"`
	Statistics map[string]StatPair `json:"statistics,omitempty"`
	Sport      string              `json:"sport"`

	Sources     []string           `json:"sources"`
	DataQuality float64            `json:"data_quality"`
	Resolution  ConflictResolution `json:"conflict_resolution"`
}
