package health

import (
	"sort"
	"sync"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

// SourceStatus is the last observed state of one source adapter.
type SourceStatus struct {
	Name      string    `json:"name"`
	Reachable bool      `json:"reachable"`
	LastError string    `json:"last_error,omitempty"`
	LastFetch time.Time `json:"last_fetch,omitempty"`
	LastCount int       `json:"last_count"`
}

// Store tracks per-source reachability and keeps the latest resolved snapshot
// per sport for the HTTP endpoints. All values stored are copies; entries are
// immutable once written.
type Store struct {
	mu       sync.RWMutex
	sources  map[string]SourceStatus
	snapshot map[string][]models.ResolvedMatch // sport -> latest resolved cycle
}

func NewStore() *Store {
	return &Store{
		sources:  make(map[string]SourceStatus),
		snapshot: make(map[string][]models.ResolvedMatch),
	}
}

// MarkSource records the outcome of one source fetch.
func (s *Store) MarkSource(name string, reachable bool, count int, fetchErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SourceStatus{
		Name:      name,
		Reachable: reachable,
		LastFetch: time.Now(),
		LastCount: count,
	}
	if fetchErr != nil {
		st.LastError = fetchErr.Error()
	}
	s.sources[name] = st
}

// Sources returns the current status of every known source, sorted by name.
func (s *Store) Sources() []SourceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SourceStatus, 0, len(s.sources))
	for _, st := range s.sources {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsReachable reports whether the named source succeeded on its last fetch.
func (s *Store) IsReachable(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sources[name].Reachable
}

// SetSnapshot stores the latest resolved records for a sport.
func (s *Store) SetSnapshot(sport string, matches []models.ResolvedMatch) {
	cp := make([]models.ResolvedMatch, len(matches))
	copy(cp, matches)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[sport] = cp
}

// Snapshot returns the latest resolved records for a sport.
func (s *Store) Snapshot(sport string) []models.ResolvedMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := s.snapshot[sport]
	cp := make([]models.ResolvedMatch, len(matches))
	copy(cp, matches)
	return cp
}
