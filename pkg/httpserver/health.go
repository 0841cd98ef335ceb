package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/subhub/pkg/logger"
)

const (
	StatusOK          = "OK"
	StatusUnavailable = "UNAVAILABLE"
)

// Check probes one dependency; a nil error means it is usable.
type Check func(ctx context.Context) error

// HealthResponse is the body written by the health handlers.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler always answers 200 {"status":"OK"} while the process serves requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// ReadinessHandler runs every named check with the request context.
// It answers 200 when all pass and 503 otherwise, reporting each check by name.
func ReadinessHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	names := slices.Sorted(maps.Keys(checks))

	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Component(name), logger.Error(err))
				resp.Status = StatusUnavailable
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = StatusOK
		}

		code := http.StatusOK
		if resp.Status != StatusOK {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, resp)
	}
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
