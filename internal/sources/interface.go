package sources

import (
	"context"

	"github.com/mkorolev/sportmonitor/internal/pkg/enums"
	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// Source wraps one external live-data site. Fetch returns every live match
// the site currently reports for the sport, tagged with the source name and
// fetch time. An empty result is not an error; transport-level failures are,
// and the aggregator catches them per source.
type Source interface {
	Name() string
	Fetch(ctx context.Context, sport enums.Sport) ([]models.RawMatch, error)
}
