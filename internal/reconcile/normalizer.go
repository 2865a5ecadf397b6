package reconcile

import (
	"strings"
	"unicode"
)

// genericNameTokens are club-form tokens stripped from the edges of a team
// name so "FC Barcelona", "Barcelona FC" and "Barcelona" compare equal.
// Covers Latin and Cyrillic short forms seen across the sources.
var genericNameTokens = map[string]struct{}{
	"fc": {}, "fk": {}, "cf": {}, "afc": {}, "cfc": {},
	"sc": {}, "ssc": {}, "ac": {}, "as": {}, "rc": {},
	"cd": {}, "ud": {}, "nk": {}, "bk": {}, "bc": {}, "if": {}, "ifk": {},
	"фк": {}, "ск": {}, "пфк": {}, "жфк": {},
}

// Normalize maps a free-text team or player name to its canonical comparison
// form: lower case, punctuation removed, whitespace collapsed, generic
// club-form tokens stripped from both edges. Pure and idempotent; empty input
// yields empty output. No transliteration is attempted, so Cyrillic and Latin
// spellings stay distinct unless the alias table maps them.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	// Punctuation and separators become spaces; letters and digits survive
	// in any script.
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)

	fields := strings.Fields(s)

	// Strip generic tokens from the edges while more than one token remains,
	// so the name itself is never erased ("FC" alone stays "fc"). Dotted
	// acronyms ("K.S.K.", "A.C.") arrive here as single-letter tokens and
	// are stripped the same way.
	for len(fields) > 1 {
		if isGenericToken(fields[0]) {
			fields = fields[1:]
			continue
		}
		if isGenericToken(fields[len(fields)-1]) {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}

	return strings.Join(fields, " ")
}

func isGenericToken(tok string) bool {
	if len([]rune(tok)) == 1 {
		return true
	}
	_, ok := genericNameTokens[tok]
	return ok
}

// Canonical resolves a name through the alias table: if the normalized form
// is a registered alias, the table's canonical name is returned, otherwise
// the normalized form itself. This is what grouping keys are built from.
func Canonical(name string) string {
	n := Normalize(name)
	if c, ok := aliasIndex[n]; ok {
		return c
	}
	return n
}

// ExpandAliases returns every string known to refer to the same team: the
// canonical form, all registered aliases, and automatic derivations (first
// word, whitespace-stripped form). The input's own canonical form is always
// a member of the result.
func ExpandAliases(name string) map[string]struct{} {
	out := make(map[string]struct{})

	n := Normalize(name)
	out[n] = struct{}{}
	if n == "" {
		return out
	}

	canonical := n
	if c, ok := aliasIndex[n]; ok {
		canonical = c
		out[c] = struct{}{}
	}
	for _, a := range aliasTable[canonical] {
		out[Normalize(a)] = struct{}{}
	}

	// Automatic derivations.
	if i := strings.IndexByte(canonical, ' '); i >= 3 {
		out[canonical[:i]] = struct{}{}
	}
	if squashed := strings.ReplaceAll(canonical, " ", ""); squashed != "" {
		out[squashed] = struct{}{}
	}

	return out
}
