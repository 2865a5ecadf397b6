package flashscore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
	"github.com/mkorolev/sportmonitor/internal/sources"
)

const name = "flashscore"

const defaultRenderTimeout = 30 * time.Second

// chromeMu serializes all Chrome usage so only one instance runs at a time
var chromeMu sync.Mutex

func init() {
	sources.Register(name, func(cfg *config.Config) sources.Source {
		return New(cfg)
	})
}

// Source scrapes the live table through a headless browser: the page is
// rendered entirely by JavaScript, so plain HTTP fetches return an empty
// shell. Rich per-match statistics make this the detailed-stats tier.
type Source struct {
	baseURL       string
	renderTimeout time.Duration
}

func New(cfg *config.Config) *Source {
	baseURL := cfg.Sources.Flashscore.BaseURL
	if baseURL == "" {
		baseURL = "https://www.flashscore.com"
	}
	renderTimeout := cfg.Sources.Flashscore.RenderTimeout
	if renderTimeout <= 0 {
		renderTimeout = defaultRenderTimeout
	}
	return &Source{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		renderTimeout: renderTimeout,
	}
}

func (s *Source) Name() string { return name }

func sportPath(sport enums.Sport) string {
	switch sport {
	case enums.Football:
		return "football"
	case enums.Tennis:
		return "tennis"
	case enums.TableTennis:
		return "table-tennis"
	case enums.Handball:
		return "handball"
	}
	return string(sport)
}

// extractRowsJS maps every live row in the rendered DOM to a plain object.
// Statistics cells are present only on expanded rows, so they come back
// sparse.
const extractRowsJS = `
Array.from(document.querySelectorAll('.event__match--live')).map(row => ({
	home:   row.querySelector('.event__participant--home')?.textContent?.trim() ?? '',
	away:   row.querySelector('.event__participant--away')?.textContent?.trim() ?? '',
	score:  Array.from(row.querySelectorAll('.event__score')).map(e => e.textContent.trim()).join(':'),
	stage:  row.querySelector('.event__stage--block')?.textContent?.trim() ?? '',
	league: row.closest('.event')?.querySelector('.event__title--name')?.textContent?.trim() ?? '',
	link:   row.querySelector('a')?.href ?? ''
}))`

type row struct {
	Home   string `json:"home"`
	Away   string `json:"away"`
	Score  string `json:"score"`
	Stage  string `json:"stage"`
	League string `json:"league"`
	Link   string `json:"link"`
}

func (s *Source) Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error) {
	chromeMu.Lock()
	defer chromeMu.Unlock()

	chromeDir, err := os.MkdirTemp("", "flashscore_chrome_")
	if err != nil {
		return nil, fmt.Errorf("flashscore: create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	ctx, cancel := context.WithTimeout(ctx, s.renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))
	defer cancel()

	url := fmt.Sprintf("%s/%s/", s.baseURL, sportPath(sport))

	var rows []row
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(extractRowsJS, &rows),
	)
	if err != nil {
		return nil, fmt.Errorf("flashscore: render %s: %w", url, err)
	}

	now := time.Now()
	out := make([]models.RawMatch, 0, len(rows))
	for _, r := range rows {
		if r.Home == "" || r.Away == "" {
			continue
		}
		out = append(out, models.RawMatch{
			Team1:     r.Home,
			Team2:     r.Away,
			Score:     orLive(r.Score),
			Time:      stageToTime(r.Stage),
			League:    r.League,
			URL:       r.Link,
			Sport:     string(sport),
			Source:    name,
			FetchedAt: now,
		})
	}
	return out, nil
}

func orLive(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == ":" {
		return models.ScoreLive
	}
	return s
}

// stageToTime maps the stage cell to the shared minute-marker vocabulary.
func stageToTime(stage string) string {
	switch strings.ToLower(strings.TrimSpace(stage)) {
	case "":
		return models.ScoreLive
	case "half time", "halftime":
		return "HT"
	case "finished", "after et", "after pen.":
		return "FT"
	default:
		return strings.TrimSpace(stage)
	}
}
