package marathonbet

import "testing"

func TestSplitTeams(t *testing.T) {
	tests := []struct {
		name  string
		event string
		home  string
		away  string
		ok    bool
	}{
		{"vs separator", "Arsenal vs Chelsea", "Arsenal", "Chelsea", true},
		{"hyphen separator", "Зенит - Спартак", "Зенит", "Спартак", true},
		{"em dash separator", "Real Madrid — Barcelona", "Real Madrid", "Barcelona", true},
		{"en dash separator", "Bayern – Dortmund", "Bayern", "Dortmund", true},
		{"extra whitespace trimmed", "  Ajax vs PSV  ", "Ajax", "PSV", true},
		{"no separator", "Arsenal Chelsea", "", "", false},
		{"empty name", "", "", "", false},
		{"hyphenated team needs spaced separator", "Sankt-Peterburg - Kazan", "Sankt-Peterburg", "Kazan", true},
		{"one side empty", "Arsenal vs ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away, ok := splitTeams(tt.event)
			if ok != tt.ok {
				t.Fatalf("splitTeams(%q) ok = %v, want %v", tt.event, ok, tt.ok)
			}
			if home != tt.home || away != tt.away {
				t.Errorf("splitTeams(%q) = %q, %q; want %q, %q", tt.event, home, away, tt.home, tt.away)
			}
		})
	}
}

func TestSportTreeID(t *testing.T) {
	if id := sportTreeID("football"); id != "11" {
		t.Errorf("expected football tree id 11, got %q", id)
	}
	if id := sportTreeID("cricket"); id != "" {
		t.Errorf("expected empty tree id for unsupported sport, got %q", id)
	}
}
