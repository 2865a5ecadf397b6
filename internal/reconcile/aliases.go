package reconcile

// aliasTable maps a canonical team name (already in Normalize form) to the
// alternative spellings the sources are known to use: abbreviations,
// transliterations and historical names. Extend as mismatches are observed
// in production logs.
var aliasTable = map[string][]string{
	"manchester united": {"man utd", "man united", "манчестер юнайтед"},
	"manchester city":   {"man city", "манчестер сити"},
	"wolverhampton":     {"wolves", "wolverhampton wanderers"},
	"tottenham":         {"tottenham hotspur", "spurs", "тоттенхэм"},
	"bayern munich":     {"bayern", "bayern munchen", "бавария"},
	"borussia dortmund": {"dortmund", "боруссия дортмунд"},
	"paris saint germain": {"psg", "paris sg", "псж"},
	"real madrid":         {"реал мадрид", "реал"},
	"atletico madrid":     {"atletico", "атлетико мадрид"},
	"inter":               {"inter milan", "internazionale", "интер"},
	"spartak moscow":      {"spartak", "спартак", "спартак москва"},
	"zenit":               {"zenit st petersburg", "зенит"},
	"cska moscow":         {"cska", "цска", "цска москва"},
	"lokomotiv moscow":    {"lokomotiv", "локомотив", "локомотив москва"},
	"krasnodar":           {"краснодар"},
	"ferencvaros":         {"ferencvarosi tc", "ференцварош"},
	"slavia prague":       {"slavia praha", "славия прага"},
	"sporting":            {"sporting cp", "sporting lisbon", "спортинг"},
	"psv":                 {"psv eindhoven", "псв"},
}

// aliasIndex is the reverse lookup: normalized alias -> canonical name.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, aliases := range aliasTable {
		for _, a := range aliases {
			idx[Normalize(a)] = canonical
		}
	}
	return idx
}
