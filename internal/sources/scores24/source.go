package scores24

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
	"github.com/mkorolev/sportmonitor/internal/sources"
)

const name = "scores24"

func init() {
	sources.Register(name, func(cfg *config.Config) sources.Source {
		return New(cfg)
	})
}

// Source scrapes the server-rendered live page. The markup embeds one
// data-match attribute bundle per row; the regional site covers leagues the
// bigger providers skip, so it serves as the fallback tier.
type Source struct {
	client  *sources.HTTPClient
	baseURL string
}

func New(cfg *config.Config) *Source {
	baseURL := cfg.Sources.Scores24.BaseURL
	if baseURL == "" {
		baseURL = "https://scores24.live"
	}
	return &Source{
		client:  sources.NewHTTPClient(&cfg.Sources, cfg.Sources.SourceTimeout(name)),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Source) Name() string { return name }

func sportSlug(sport enums.Sport) string {
	if sport == enums.TableTennis {
		return "table-tennis"
	}
	return string(sport)
}

// matchRowRe captures one live row: team names, score, minute marker and an
// optional league attribute. The markup is brittle; when the site changes the
// regexp is the first thing to check.
var matchRowRe = regexp.MustCompile(
	`data-team1="([^"]+)"\s+data-team2="([^"]+)"\s+data-score="([^"]*)"\s+data-time="([^"]*)"(?:\s+data-league="([^"]*)")?`)

func (s *Source) Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error) {
	url := fmt.Sprintf("%s/ru/%s/live", s.baseURL, sportSlug(sport))

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scores24: %w", err)
	}

	return ParseLivePage(body, sport, url), nil
}

// ParseLivePage extracts raw matches from the live page markup. Rows without
// both team names are skipped.
func ParseLivePage(body []byte, sport enums.Sport, pageURL string) []models.RawMatch {
	now := time.Now()

	rows := matchRowRe.FindAllStringSubmatch(string(body), -1)
	out := make([]models.RawMatch, 0, len(rows))
	for _, row := range rows {
		team1 := strings.TrimSpace(row[1])
		team2 := strings.TrimSpace(row[2])
		if team1 == "" || team2 == "" {
			continue
		}
		out = append(out, models.RawMatch{
			Team1:     team1,
			Team2:     team2,
			Score:     orLive(row[3]),
			Time:      orLive(row[4]),
			League:    strings.TrimSpace(row[5]),
			URL:       pageURL,
			Sport:     string(sport),
			Source:    name,
			FetchedAt: now,
		})
	}
	return out
}

func orLive(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.ScoreLive
	}
	return strings.TrimSpace(s)
}
