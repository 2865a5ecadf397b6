package reconcile

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FC Barcelona", "barcelona"},
		{"Barcelona FC", "barcelona"},
		{"  Real   Madrid  ", "real madrid"},
		{"K.S.K. Heist", "heist"},
		{"RC Hades", "hades"},
		{"ФК Зенит", "зенит"},
		{"Saint-Étienne", "saint étienne"},
		{"", ""},
		{"FC", "fc"}, // generic token alone is never erased
		{"Malmö FF", "malmö ff"},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	names := []string{
		"FC Barcelona", "Manchester United", "K.S.K. Heist", "ФК Спартак Москва",
		"Paris Saint-Germain", "", "FC", "FC FC",
	}
	for _, n := range names {
		once := Normalize(n)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", n, once, twice)
		}
	}
}

func TestCanonical_AliasLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Man Utd", "manchester united"},
		{"Манчестер Юнайтед", "manchester united"},
		{"PSG", "paris saint germain"},
		{"Wolves", "wolverhampton"},
		{"Some Unknown Team", "some unknown team"},
	}
	for _, tt := range tests {
		got := Canonical(tt.in)
		if got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandAliases_ContainsOwnCanonicalForm(t *testing.T) {
	names := []string{"FC Barcelona", "Man Utd", "PSG", "Jamaica", "ЦСКА"}
	for _, n := range names {
		aliases := ExpandAliases(n)
		if _, ok := aliases[Normalize(n)]; !ok {
			t.Errorf("ExpandAliases(%q) does not contain Normalize(%q)=%q: %v", n, n, Normalize(n), aliases)
		}
	}
}

func TestExpandAliases_Derivations(t *testing.T) {
	aliases := ExpandAliases("Manchester United")

	for _, want := range []string{"manchester united", "man utd", "manchester", "manchesterunited"} {
		if _, ok := aliases[want]; !ok {
			t.Errorf("ExpandAliases(Manchester United) missing %q: %v", want, aliases)
		}
	}
}
