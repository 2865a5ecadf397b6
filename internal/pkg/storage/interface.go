package storage

import (
	"context"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// ResultCache is the short-TTL cache in front of a full fetch+resolve cycle.
// Values are immutable once stored; a miss is (nil, false).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]models.ResolvedMatch, bool)
	Set(ctx context.Context, key string, matches []models.ResolvedMatch)
}
