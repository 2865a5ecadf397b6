package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Run starts the health HTTP server in the background and shuts it down when
// ctx is cancelled.
//
// Endpoints:
//
//	/ping     liveness
//	/health   per-source reachability
//	/matches  latest resolved snapshot for ?sport=
func Run(ctx context.Context, addr string, service string, store *Store, readHeaderTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be specified in config")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/health", handleHealth(store))
	mux.HandleFunc("/matches", handleMatches(store))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()

	return nil
}

func AddrFor(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("port must be greater than 0")
	}
	return fmt.Sprintf(":%d", port), nil
}

func handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func handleHealth(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sources := store.Sources()

		status := http.StatusOK
		healthy := 0
		for _, s := range sources {
			if s.Reachable {
				healthy++
			}
		}
		if len(sources) > 0 && healthy == 0 {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]any{
			"status":  http.StatusText(status),
			"sources": sources,
		})
	}
}

func handleMatches(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sport := r.URL.Query().Get("sport")
		if sport == "" {
			sport = "football"
		}
		matches := store.Snapshot(sport)

		writeJSON(w, http.StatusOK, map[string]any{
			"matches": matches,
			"meta": map[string]any{
				"count": len(matches),
				"sport": sport,
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
