package reconcile

import "github.com/mkorolev/sportmonitor/internal/pkg/models"

// maxSourceBonus caps the per-source confirmation bonus at three sources.
const maxSourceBonus = 3

// Score computes the completeness/trust score for a resolved record, in
// [0, 1]. It is the sole ranking key downstream, so it must stay pure:
// recompute after any field change, never cache.
//
// Weights: both team names +0.2; a real (non-placeholder) score +0.1; a real
// time marker +0.1; league +0.1; canonical URL +0.1; non-empty statistics
// +0.1; +0.1 per distinct contributing source up to +0.3.
func Score(m *models.ResolvedMatch) float64 {
	s := 0.0
	if m.Team1 != "" && m.Team2 != "" {
		s += 0.2
	}
	if m.Score != "" && m.Score != models.ScoreLive {
		s += 0.1
	}
	if m.Time != "" && m.Time != models.ScoreLive {
		s += 0.1
	}
	if m.League != "" {
		s += 0.1
	}
	if m.URL != "" {
		s += 0.1
	}
	if len(m.Statistics) > 0 {
		s += 0.1
	}

	n := len(m.Sources)
	if n > maxSourceBonus {
		n = maxSourceBonus
	}
	s += 0.1 * float64(n)

	if s > 1.0 {
		s = 1.0
	}
	return s
}
