package marathonbet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
	"github.com/mkorolev/sportmonitor/internal/sources"
)

const name = "marathonbet"

func init() {
	sources.Register(name, func(cfg *config.Config) sources.Source {
		return New(cfg)
	})
}

// Source reads the live-betting JSON feed. This is the dedicated odds
// provider: its market prices outrank every other source, while its score and
// time readings rank last.
type Source struct {
	client  *sources.HTTPClient
	baseURL string
}

func New(cfg *config.Config) *Source {
	baseURL := cfg.Sources.Marathonbet.BaseURL
	if baseURL == "" {
		baseURL = "https://www.marathonbet.ru"
	}
	return &Source{
		client:  sources.NewHTTPClient(&cfg.Sources, cfg.Sources.SourceTimeout(name)),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Source) Name() string { return name }

// sportTreeID maps a sport to the feed's category identifier.
func sportTreeID(sport enums.Sport) string {
	switch sport {
	case enums.Football:
		return "11"
	case enums.Tennis:
		return "22"
	case enums.TableTennis:
		return "414329"
	case enums.Handball:
		return "41"
	}
	return ""
}

type liveFeedResponse struct {
	Events []struct {
		Name       string `json:"name"` // "Team1 vs Team2"
		League     string `json:"competitionName"`
		Score      string `json:"score"` // "0:2"
		MatchPhase string `json:"matchPhase"`
		URL        string `json:"url"`
		Markets    []struct {
			Selection string `json:"selectionKey"` // "П1", "X", "П2", "Ф1(-1.5)", ...
			Price     string `json:"price"`
		} `json:"markets"`
	} `json:"events"`
}

func (s *Source) Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error) {
	treeID := sportTreeID(sport)
	if treeID == "" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/en/live/feed?treeId=%s", s.baseURL, treeID)

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("marathonbet: %w", err)
	}

	var resp liveFeedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("marathonbet: failed to parse feed: %w", err)
	}

	now := time.Now()
	out := make([]models.RawMatch, 0, len(resp.Events))
	for _, ev := range resp.Events {
		team1, team2, ok := splitTeams(ev.Name)
		if !ok {
			continue
		}

		m := models.RawMatch{
			Team1:     team1,
			Team2:     team2,
			Score:     orLive(ev.Score),
			Time:      orLive(ev.MatchPhase),
			League:    ev.League,
			URL:       ev.URL,
			Sport:     string(sport),
			Source:    name,
			FetchedAt: now,
		}
		if len(ev.Markets) > 0 {
			m.Odds = make(map[string]string, len(ev.Markets))
			for _, mk := range ev.Markets {
				if mk.Selection == "" || mk.Price == "" {
					continue
				}
				m.Odds[mk.Selection] = mk.Price
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// splitTeams extracts team names from the event name.
// Supports separators: " vs ", " - ", " — ", " – "
func splitTeams(eventName string) (string, string, bool) {
	eventName = strings.TrimSpace(eventName)
	if eventName == "" {
		return "", "", false
	}
	for _, sep := range []string{" vs ", " - ", " — ", " – "} {
		parts := strings.Split(eventName, sep)
		if len(parts) != 2 {
			continue
		}
		home := strings.TrimSpace(parts[0])
		away := strings.TrimSpace(parts[1])
		if home == "" || away == "" {
			return "", "", false
		}
		return home, away, true
	}
	return "", "", false
}

func orLive(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.ScoreLive
	}
	return strings.TrimSpace(s)
}
