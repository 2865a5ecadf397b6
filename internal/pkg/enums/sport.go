package enums

import "strings"

// Sport represents supported sports types
type Sport string

const (
	Football    Sport = "football"
	Tennis      Sport = "tennis"
	TableTennis Sport = "tabletennis"
	Handball    Sport = "handball"
)

// SportInfo contains additional information about a sport
type SportInfo struct {
	Name  string
	Alias string
}

// GetSportInfo returns sport information
func (s Sport) GetSportInfo() SportInfo {
	switch s {
	case Football:
		return SportInfo{Name: "Football", Alias: "football"}
	case Tennis:
		return SportInfo{Name: "Tennis", Alias: "tennis"}
	case TableTennis:
		return SportInfo{Name: "Table Tennis", Alias: "tabletennis"}
	case Handball:
		return SportInfo{Name: "Handball", Alias: "handball"}
	default:
		return SportInfo{Name: string(s), Alias: string(s)}
	}
}

func (s Sport) String() string {
	return string(s)
}

// ParseSport parses a sport name string into a Sport.
// Accepts a few common spellings ("table tennis", "table-tennis").
func ParseSport(s string) (Sport, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "football", "soccer":
		return Football, true
	case "tennis":
		return Tennis, true
	case "tabletennis", "table tennis", "table-tennis":
		return TableTennis, true
	case "handball":
		return Handball, true
	}
	return "", false
}

// AllSports returns every supported sport in a stable order.
func AllSports() []Sport {
	return []Sport{Football, Tennis, TableTennis, Handball}
}
