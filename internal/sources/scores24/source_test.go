package scores24

import (
	"testing"

	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

const livePageSample = `
<div class="live-list">
  <div class="match-row" data-team1="Спартак" data-team2="Зенит" data-score="1:0" data-time="34'" data-league="РПЛ"></div>
  <div class="match-row" data-team1="Rapid Wien" data-team2="Sturm Graz" data-score="" data-time="" ></div>
  <div class="match-row" data-team1="" data-team2="Ghost FC" data-score="0:0" data-time="10'"></div>
</div>`

func TestParseLivePage(t *testing.T) {
	got := ParseLivePage([]byte(livePageSample), enums.Football, "https://scores24.live/ru/football/live")

	if len(got) != 2 {
		t.Fatalf("expected 2 matches (row without team1 skipped), got %d", len(got))
	}

	first := got[0]
	if first.Team1 != "Спартак" || first.Team2 != "Зенит" {
		t.Errorf("unexpected teams: %q / %q", first.Team1, first.Team2)
	}
	if first.Score != "1:0" || first.Time != "34'" {
		t.Errorf("unexpected score/time: %q / %q", first.Score, first.Time)
	}
	if first.League != "РПЛ" {
		t.Errorf("unexpected league: %q", first.League)
	}
	if first.Source != "scores24" {
		t.Errorf("unexpected source: %q", first.Source)
	}
	if first.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}

	second := got[1]
	if second.Score != models.ScoreLive || second.Time != models.ScoreLive {
		t.Errorf("empty score/time should map to placeholder, got %q / %q", second.Score, second.Time)
	}
	if second.League != "" {
		t.Errorf("expected empty league, got %q", second.League)
	}
}

func TestParseLivePageEmptyBody(t *testing.T) {
	got := ParseLivePage(nil, enums.Football, "https://scores24.live/ru/football/live")
	if len(got) != 0 {
		t.Fatalf("expected no matches from empty body, got %d", len(got))
	}
}

func TestSportSlug(t *testing.T) {
	if slug := sportSlug(enums.TableTennis); slug != "table-tennis" {
		t.Errorf("expected table-tennis slug, got %q", slug)
	}
	if slug := sportSlug(enums.Football); slug != "football" {
		t.Errorf("expected football slug, got %q", slug)
	}
}
