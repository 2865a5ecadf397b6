package models

import "time"

// Signature is a deterministic, order-independent key identifying one
// real-world match across sources for one calendar day.
type Signature string

// SignatureKey builds a Signature from two already-normalized team names and
// the event date. The pair is ordered lexicographically so the same match
// produces the same key regardless of which side a source lists first.
//
// IMPORTANT: callers must normalize the names first; this only orders and
// joins them. Format: teamA|teamB|YYYY-MM-DD
func SignatureKey(team1, team2 string, day time.Time) Signature {
	a, b := team1, team2
	if b < a {
		a, b = b, a
	}

	d := "unknown-date"
	if !day.IsZero() {
		d = day.UTC().Format("2006-01-02")
	}

	return Signature(a + "|" + b + "|" + d)
}
