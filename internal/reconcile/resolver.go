package reconcile

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// DefaultFreshnessWindow is the span within which competing score readings
// are considered contemporaneous and compared by source priority instead of
// simply taking the latest.
const DefaultFreshnessWindow = 120 * time.Second

// PriorityPolicy ranks sources per field, most trusted first. Priority is
// field-dependent: the odds-focused source outranks everyone for odds, the
// live-score source outranks everyone for score and time.
type PriorityPolicy struct {
	Score      []string
	Time       []string
	Odds       []string
	Statistics []string
	Scalar     []string // league, URL, team spellings
}

// DefaultPriorityPolicy reflects the production source set: marathonbet is
// the dedicated odds provider, sofascore the primary live-score provider,
// flashscore the detailed-stats provider, scores24 the regional fallback.
func DefaultPriorityPolicy() PriorityPolicy {
	scoreOrder := []string{"sofascore", "flashscore", "scores24", "marathonbet"}
	return PriorityPolicy{
		Score:      scoreOrder,
		Time:       scoreOrder,
		Odds:       []string{"marathonbet", "sofascore", "flashscore", "scores24"},
		Statistics: []string{"flashscore", "sofascore", "scores24", "marathonbet"},
		Scalar:     scoreOrder,
	}
}

// PolicyFromConfig builds a policy from the config mapping (field name ->
// ordered source list), falling back to defaults for absent fields.
func PolicyFromConfig(priorities map[string][]string) PriorityPolicy {
	p := DefaultPriorityPolicy()
	if v, ok := priorities["score"]; ok {
		p.Score = v
	}
	if v, ok := priorities["time"]; ok {
		p.Time = v
	}
	if v, ok := priorities["odds"]; ok {
		p.Odds = v
	}
	if v, ok := priorities["statistics"]; ok {
		p.Statistics = v
	}
	if v, ok := priorities["scalar"]; ok {
		p.Scalar = v
	}
	return p
}

// rank returns the position of source in the ordered list; unknown sources
// rank below every listed one.
func rank(order []string, source string) int {
	for i, s := range order {
		if s == source {
			return i
		}
	}
	return len(order)
}

// Resolution is the outcome of merging one group. Degraded marks the fallback
// path where merging failed and the highest-priority raw record was passed
// through unchanged.
type Resolution struct {
	Match    models.ResolvedMatch
	Degraded bool
	Reason   string
}

// Resolver merges a group of raw records sharing a signature into one
// canonical record. It never returns an error: a merge-level failure degrades
// to a raw passthrough instead.
type Resolver struct {
	policy PriorityPolicy
	window time.Duration
}

func NewResolver(policy PriorityPolicy, window time.Duration) *Resolver {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	return &Resolver{policy: policy, window: window}
}

// Resolve merges the group field by field. A single-record group passes
// through with only the source set and quality attached.
func (r *Resolver) Resolve(group []models.RawMatch) (res Resolution) {
	if len(group) == 0 {
		return Resolution{Degraded: true, Reason: "empty group"}
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("Resolution failed, falling back to raw record", "panic", fmt.Sprint(p))
			res = r.fallback(group, fmt.Sprintf("merge panic: %v", p))
		}
	}()

	if len(group) == 1 {
		m := fromRaw(group[0])
		m.Sources = []string{group[0].Source}
		m.Resolution = models.ConflictResolution{SourceCount: 1}
		m.DataQuality = Score(&m)
		return Resolution{Match: m}
	}

	var conflicts []string

	score, c := r.resolveScore(group)
	if c != "" {
		conflicts = append(conflicts, c)
	}
	matchTime, c := r.resolveTime(group)
	if c != "" {
		conflicts = append(conflicts, c)
	}
	odds := r.resolveOdds(group)
	stats := r.mergeStatistics(group)
	league, c := r.resolveScalar(group, func(m models.RawMatch) string { return m.League })
	if c != "" {
		conflicts = append(conflicts, "league_conflict: "+c)
	}
	url, _ := r.resolveScalar(group, func(m models.RawMatch) string { return m.URL })

	// Team spellings and sport come from the most trusted contributor.
	lead := group[0]
	leadRank := rank(r.policy.Scalar, lead.Source)
	for _, m := range group[1:] {
		if rk := rank(r.policy.Scalar, m.Source); rk < leadRank {
			lead, leadRank = m, rk
		}
	}

	m := models.ResolvedMatch{
		Team1:      lead.Team1,
		Team2:      lead.Team2,
		Score:      score,
		Time:       matchTime,
		League:     league,
		URL:        url,
		Odds:       odds,
		Statistics: stats,
		Sport:      lead.Sport,
		Sources:    distinctSources(group),
	}
	m.Resolution = models.ConflictResolution{
		SourceCount: len(m.Sources),
		Conflicts:   conflicts,
	}
	m.DataQuality = Score(&m)

	return Resolution{Match: m}
}

// fallback returns the single highest-priority raw record unchanged, marked
// as a degraded resolution.
func (r *Resolver) fallback(group []models.RawMatch, reason string) Resolution {
	best := group[0]
	bestRank := rank(r.policy.Scalar, best.Source)
	for _, m := range group[1:] {
		if rk := rank(r.policy.Scalar, m.Source); rk < bestRank {
			best, bestRank = m, rk
		}
	}

	out := fromRaw(best)
	out.Sources = []string{best.Source}
	out.Resolution = models.ConflictResolution{
		SourceCount: len(distinctSources(group)),
		Degraded:    true,
		Reason:      reason,
	}
	out.DataQuality = Score(&out)
	return Resolution{Match: out, Degraded: true, Reason: reason}
}

// resolveScore narrows non-placeholder candidates to the freshness window of
// the most recent reading, then takes the most recent; source priority breaks
// ties between contemporaneous readings.
func (r *Resolver) resolveScore(group []models.RawMatch) (string, string) {
	var candidates []models.RawMatch
	for _, m := range group {
		if m.Score != "" && m.Score != models.ScoreLive {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return models.ScoreLive, ""
	}

	conflict := ""
	if vals := distinctValues(candidates, func(m models.RawMatch) string { return m.Score }); len(vals) > 1 {
		conflict = fmt.Sprintf("score_conflict: %v", vals)
	}

	latest := candidates[0].FetchedAt
	for _, m := range candidates[1:] {
		if m.FetchedAt.After(latest) {
			latest = m.FetchedAt
		}
	}

	fresh := candidates[:0:0]
	for _, m := range candidates {
		if latest.Sub(m.FetchedAt) <= r.window {
			fresh = append(fresh, m)
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		if !fresh[i].FetchedAt.Equal(fresh[j].FetchedAt) {
			return fresh[i].FetchedAt.After(fresh[j].FetchedAt)
		}
		return rank(r.policy.Score, fresh[i].Source) < rank(r.policy.Score, fresh[j].Source)
	})

	return fresh[0].Score, conflict
}

// resolveTime picks the highest numeric minute: live matches only move
// forward, so the largest reading is assumed the most current. Ties break by
// source priority.
func (r *Resolver) resolveTime(group []models.RawMatch) (string, string) {
	bestIdx := -1
	bestMinute := -1
	for i, m := range group {
		minute := ParseMinute(m.Time)
		if minute > bestMinute {
			bestMinute, bestIdx = minute, i
			continue
		}
		if minute == bestMinute && bestIdx >= 0 &&
			rank(r.policy.Time, m.Source) < rank(r.policy.Time, group[bestIdx].Source) {
			bestIdx = i
		}
	}

	conflict := ""
	if vals := distinctValues(group, func(m models.RawMatch) string { return m.Time }); len(vals) > 1 {
		conflict = fmt.Sprintf("time_conflict: %v", vals)
	}

	if bestIdx < 0 || bestMinute <= 0 {
		return models.ScoreLive, conflict
	}
	return group[bestIdx].Time, conflict
}

// resolveOdds keeps the candidate mapping with the most populated markets,
// ties broken by the odds-specific source priority.
func (r *Resolver) resolveOdds(group []models.RawMatch) map[string]string {
	bestIdx := -1
	for i, m := range group {
		if len(m.Odds) == 0 {
			continue
		}
		if bestIdx < 0 || len(m.Odds) > len(group[bestIdx].Odds) {
			bestIdx = i
			continue
		}
		if len(m.Odds) == len(group[bestIdx].Odds) &&
			rank(r.policy.Odds, m.Source) < rank(r.policy.Odds, group[bestIdx].Source) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return group[bestIdx].Odds
}

// mergeStatistics merges stats key by key; on collision the value from the
// higher-priority source wins. Records are applied least trusted first so
// later writes overwrite.
func (r *Resolver) mergeStatistics(group []models.RawMatch) map[string]models.StatPair {
	ordered := make([]models.RawMatch, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(r.policy.Statistics, ordered[i].Source) > rank(r.policy.Statistics, ordered[j].Source)
	})

	var out map[string]models.StatPair
	for _, m := range ordered {
		if len(m.Statistics) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]models.StatPair)
		}
		for k, v := range m.Statistics {
			out[k] = v
		}
	}
	return out
}

// resolveScalar returns the first non-empty value in scalar priority order,
// plus a formatted value list when contributors disagreed.
func (r *Resolver) resolveScalar(group []models.RawMatch, get func(models.RawMatch) string) (string, string) {
	ordered := make([]models.RawMatch, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(r.policy.Scalar, ordered[i].Source) < rank(r.policy.Scalar, ordered[j].Source)
	})

	value := ""
	for _, m := range ordered {
		if v := strings.TrimSpace(get(m)); v != "" {
			value = v
			break
		}
	}

	conflict := ""
	if vals := distinctValues(group, get); len(vals) > 1 {
		conflict = fmt.Sprintf("%v", vals)
	}
	return value, conflict
}

// ParseMinute converts a free-text time marker to a numeric minute:
// "FT"->95, "HT"->48, "90+3'"->93, "67'"->67, anything unparsable->0.
func ParseMinute(s string) int {
	s = strings.TrimSpace(strings.ToUpper(s))
	switch s {
	case "", models.ScoreLive:
		return 0
	case "FT", "AET":
		return 95
	case "HT":
		return 48
	}

	s = strings.TrimRight(s, "'′’")
	if base, added, ok := strings.Cut(s, "+"); ok {
		b, err1 := strconv.Atoi(strings.TrimSpace(base))
		a, err2 := strconv.Atoi(strings.TrimSpace(added))
		if err1 != nil || err2 != nil {
			return 0
		}
		return b + a
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func fromRaw(m models.RawMatch) models.ResolvedMatch {
	return models.ResolvedMatch{
		Team1:      m.Team1,
		Team2:      m.Team2,
		Score:      m.Score,
		Time:       m.Time,
		League:     m.League,
		URL:        m.URL,
		Odds:       m.Odds,
		Statistics: m.Statistics,
		Sport:      m.Sport,
	}
}

func distinctSources(group []models.RawMatch) []string {
	seen := make(map[string]struct{}, len(group))
	out := make([]string, 0, len(group))
	for _, m := range group {
		if _, ok := seen[m.Source]; ok || m.Source == "" {
			continue
		}
		seen[m.Source] = struct{}{}
		out = append(out, m.Source)
	}
	sort.Strings(out)
	return out
}

func distinctValues(group []models.RawMatch, get func(models.RawMatch) string) []string {
	seen := make(map[string]struct{}, len(group))
	out := make([]string, 0, len(group))
	for _, m := range group {
		v := strings.TrimSpace(get(m))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
