package sofascore

import (
	"testing"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

func TestFormatScore(t *testing.T) {
	two, zero := 2, 0

	if got := formatScore(&two, &zero); got != "2:0" {
		t.Errorf("expected 2:0, got %q", got)
	}
	if got := formatScore(nil, &zero); got != models.ScoreLive {
		t.Errorf("expected placeholder for missing home score, got %q", got)
	}
	if got := formatScore(&two, nil); got != models.ScoreLive {
		t.Errorf("expected placeholder for missing away score, got %q", got)
	}
}

func TestStatusToTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		description string
		periodStart time.Time
		want        string
	}{
		{"halftime", "Halftime", time.Time{}, "HT"},
		{"ended", "Ended", time.Time{}, "FT"},
		{"extra time finished", "AET", time.Time{}, "FT"},
		{"first half 12 minutes in", "1st half", now.Add(-12 * time.Minute), "12'"},
		{"second half adds 45", "2nd half", now.Add(-20 * time.Minute), "65'"},
		{"clock skew clamps to zero", "1st half", now.Add(2 * time.Minute), "0'"},
		{"first half without period start", "1st half", time.Time{}, models.ScoreLive},
		{"unknown status", "Interrupted", time.Time{}, models.ScoreLive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var periodStart int64
			if !tt.periodStart.IsZero() {
				periodStart = tt.periodStart.Unix()
			}
			if got := statusToTime(tt.description, periodStart, now); got != tt.want {
				t.Errorf("statusToTime(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}
