package scheduler

import (
	"testing"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
)

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{}
}

func TestWithinActiveHours(t *testing.T) {
	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		if err != nil {
			t.Fatalf("bad test time %q: %v", hhmm, err)
		}
		return time.Date(2025, 6, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		from string
		to   string
		now  string
		want bool
	}{
		{"empty window always active", "", "", "03:00", true},
		{"inside day window", "09:00", "23:00", "12:30", true},
		{"before day window", "09:00", "23:00", "08:59", false},
		{"at window start", "09:00", "23:00", "09:00", true},
		{"at window end", "09:00", "23:00", "23:00", false},
		{"midnight crossing, evening side", "22:00", "06:00", "23:15", true},
		{"midnight crossing, morning side", "22:00", "06:00", "02:00", true},
		{"midnight crossing, daytime gap", "22:00", "06:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scheduler{activeFrom: tt.from, activeTo: tt.to}
			if got := s.withinActiveHours(at(tt.now)); got != tt.want {
				t.Errorf("withinActiveHours(%s) with window %s-%s = %v, want %v", tt.now, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.Sports = []string{"cricket"}
	if _, err := New(&cfg, nil, nil, nil); err == nil {
		t.Error("expected error for unknown sport")
	}

	cfg = testSchedulerConfig()
	cfg.ActiveFrom = "9am"
	if _, err := New(&cfg, nil, nil, nil); err == nil {
		t.Error("expected error for malformed active_from")
	}
}

func TestNewDefaults(t *testing.T) {
	cfg := testSchedulerConfig()
	s, err := New(&cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.interval != defaultInterval {
		t.Errorf("expected default interval %v, got %v", defaultInterval, s.interval)
	}
	if s.maxMatches != defaultMaxMatches {
		t.Errorf("expected default max matches %d, got %d", defaultMaxMatches, s.maxMatches)
	}
	if len(s.sports) != 1 || s.sports[0] != "football" {
		t.Errorf("expected football as default sport, got %v", s.sports)
	}
}
