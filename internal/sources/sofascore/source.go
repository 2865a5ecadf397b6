package sofascore

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

const name = "sofascore"

func init() {
	sources.Register(name, func(cfg *config.Config) sources.Source {
		return New(cfg)
	})
}

// Source reads the live-events JSON API. This is the primary live-score
// provider: score and time readings from here outrank every other source.
type Source struct {
	client  *sources.HTTPClient
	baseURL string
}

func New(cfg *config.Config) *Source {
	baseURL := cfg.Sources.Sofascore.BaseURL
	if baseURL == "" {
		baseURL = "https://api.sofascore.com"
	}
	return &Source{
		client:  sources.NewHTTPClient(&cfg.Sources, cfg.Sources.SourceTimeout(name)),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Source) Name() string { return name }

// sportPath maps a sport to the API path segment.
func sportPath(sport enums.Sport) string {
	if sport == enums.TableTennis {
		return "table-tennis"
	}
	return string(sport)
}

type liveEventsResponse struct {
	Events []struct {
		Tournament struct {
			Name string `json:"name"`
		} `json:"tournament"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		HomeScore struct {
			Current *int `json:"current"`
		} `json:"homeScore"`
		AwayScore struct {
			Current *int `json:"current"`
		} `json:"awayScore"`
		Status struct {
			Description string `json:"description"` // "1st half", "Halftime", "Ended", ...
			Type        string `json:"type"`
		} `json:"status"`
		Time struct {
			CurrentPeriodStartTimestamp int64 `json:"currentPeriodStartTimestamp"`
			InitialMinute               int   `json:"initial"`
		} `json:"time"`
		Slug string `json:"slug"`
		ID   int64  `json:"id"`
	} `json:"events"`
}

func (s *Source) Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error) {
	url := fmt.Sprintf("%s/api/v1/sport/%s/events/live", s.baseURL, sportPath(sport))

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("sofascore: %w", err)
	}

	var resp liveEventsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("sofascore: failed to parse events: %w", err)
	}

	now := time.Now()
	out := make([]models.RawMatch, 0, len(resp.Events))
	for _, ev := range resp.Events {
		m := models.RawMatch{
			Team1:     ev.HomeTeam.Name,
			Team2:     ev.AwayTeam.Name,
			Score:     formatScore(ev.HomeScore.Current, ev.AwayScore.Current),
			Time:      statusToTime(ev.Status.Description, ev.Time.CurrentPeriodStartTimestamp, now),
			League:    ev.Tournament.Name,
			Sport:     string(sport),
			Source:    name,
			FetchedAt: now,
		}
		if ev.Slug != "" && ev.ID != 0 {
			m.URL = fmt.Sprintf("https://www.sofascore.com/%s/%d", ev.Slug, ev.ID)
		}
		out = append(out, m)
	}
	return out, nil
}

func formatScore(home, away *int) string {
	if home == nil || away == nil {
		return models.ScoreLive
	}
	return fmt.Sprintf("%d:%d", *home, *away)
}

// statusToTime converts the API status into the free-text minute marker the
// reconciler understands.
func statusToTime(description string, periodStart int64, now time.Time) string {
	switch strings.ToLower(description) {
	case "halftime":
		return "HT"
	case "ended", "finished", "aet":
		return "FT"
	case "1st half", "2nd half":
		if periodStart > 0 {
			elapsed := int(now.Sub(time.Unix(periodStart, 0)).Minutes())
			if elapsed < 0 {
				elapsed = 0
			}
			if strings.HasPrefix(strings.ToLower(description), "2nd") {
				elapsed += 45
			}
			return fmt.Sprintf("%d'", elapsed)
		}
	}
	return models.ScoreLive
}
