package sources

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mkorolev/sportmonitor/internal/pkg/config"
)

type Factory func(cfg *config.Config) Source

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("sources: empty name in Register")
	}
	if f == nil {
		panic("sources: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("sources: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	return f, ok
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build instantiates every enabled source from the registry.
func Build(cfg *config.Config) ([]Source, error) {
	out := make([]Source, 0, len(cfg.Sources.Enabled))
	for _, name := range cfg.Sources.Enabled {
		f, ok := FactoryByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (available: %v)", name, AvailableNames())
		}
		out = append(out, f(cfg))
	}
	return out, nil
}
