package reconcile

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// minFuzzyNameLen excludes short names from fuzzy matching: under this length
// a distance-2 edit can turn one team into another.
const minFuzzyNameLen = 3

// GroupStats counts records that could not be grouped cleanly.
type GroupStats struct {
	Dropped     int // missing or self-equal team names
	FuzzyMerged int // joined an existing group via edit-distance fallback
}

// Grouper buckets raw records into one group per believed real-world event,
// keyed by the order-independent signature of the canonical team pair plus
// the current date.
//
// Grouping is primarily exact equality on canonical names. When fuzzyDistance
// is positive, a record whose signature has no exact group joins an existing
// group whose team-pair is within that edit distance; this merges near-miss
// spellings across sources at the cost of occasional false pairings, which is
// why the distance is kept small (2) and short names are excluded.
type Grouper struct {
	fuzzyDistance int
	now           func() time.Time
}

func NewGrouper(fuzzyDistance int) *Grouper {
	return &Grouper{
		fuzzyDistance: fuzzyDistance,
		now:           time.Now,
	}
}

// Group partitions records by signature. Records with a missing team name, or
// whose two names normalize to the same string, are dropped and counted.
func (g *Grouper) Group(records []models.RawMatch) (map[models.Signature][]models.RawMatch, GroupStats) {
	groups := make(map[models.Signature][]models.RawMatch)
	var stats GroupStats

	day := g.now()

	for _, r := range records {
		t1 := Canonical(r.Team1)
		t2 := Canonical(r.Team2)
		if t1 == "" || t2 == "" || t1 == t2 {
			stats.Dropped++
			continue
		}

		sig := models.SignatureKey(t1, t2, day)
		if _, ok := groups[sig]; ok {
			groups[sig] = append(groups[sig], r)
			continue
		}

		if near, ok := g.findNear(groups, sig, t1, t2); ok {
			groups[near] = append(groups[near], r)
			stats.FuzzyMerged++
			continue
		}

		groups[sig] = []models.RawMatch{r}
	}

	return groups, stats
}

// findNear scans existing signatures for a team pair within the configured
// edit distance of the candidate pair.
func (g *Grouper) findNear(groups map[models.Signature][]models.RawMatch, sig models.Signature, t1, t2 string) (models.Signature, bool) {
	if g.fuzzyDistance <= 0 {
		return "", false
	}
	if len([]rune(t1)) < minFuzzyNameLen || len([]rune(t2)) < minFuzzyNameLen {
		return "", false
	}

	pair := pairPart(sig)
	for existing := range groups {
		if levenshtein.ComputeDistance(pair, pairPart(existing)) <= g.fuzzyDistance {
			return existing, true
		}
	}
	return "", false
}

// pairPart strips the trailing date component from a signature, leaving
// "teamA|teamB".
func pairPart(sig models.Signature) string {
	s := string(sig)
	if i := strings.LastIndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}
