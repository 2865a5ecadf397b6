package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

func TestMemoryCache_HitAndExpiry(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30 * time.Second)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	matches := []models.ResolvedMatch{{Team1: "Jamaica", Team2: "Bermuda"}}

	c.Set(ctx, "football:live", matches)

	got, ok := c.Get(ctx, "football:live")
	if !ok || len(got) != 1 {
		t.Fatalf("expected cache hit, got ok=%v matches=%v", ok, got)
	}

	now = now.Add(31 * time.Second)
	if _, ok := c.Get(ctx, "football:live"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCache_EmptyKeyIgnored(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "", []models.ResolvedMatch{{Team1: "A", Team2: "B"}})
	if _, ok := c.Get(ctx, ""); ok {
		t.Error("empty key must never hit")
	}
}

func TestMemoryCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	c.Set(ctx, "k", []models.ResolvedMatch{{Team1: "A", Team2: "B"}})
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("zero TTL must disable caching")
	}
}
