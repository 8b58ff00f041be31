package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/sgr-storefront/api/responses"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

// HealthLive reports that the process is up, mirroring the backend's own
// health shape.
func HealthLive(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"status":         "ok",
			"started_at":     startedAt.UTC(),
			"uptime_seconds": time.Since(startedAt).Seconds(),
		})
	}
}

type readinessCheck struct {
	name  string
	check func(context.Context) error
}

// ReadinessChecks builds the dependency list for HealthReady. Nil checks are
// skipped, so optional dependencies (Redis, Maps) just drop out.
func ReadinessChecks(checks map[string]func(context.Context) error) []readinessCheck {
	out := make([]readinessCheck, 0, len(checks))
	for name, check := range checks {
		if check != nil {
			out = append(out, readinessCheck{name: name, check: check})
		}
	}
	return out
}

// HealthReady pings each dependency and reports per-dependency status. Any
// failure turns the overall status to degraded with a 503.
func HealthReady(logg *logger.Logger, checks []readinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		statuses := make(map[string]string, len(checks))
		healthy := true
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				healthy = false
				statuses[c.name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", c.name), "readiness check failed", err)
				}
				continue
			}
			statuses[c.name] = "ok"
		}

		overall := "ok"
		status := http.StatusOK
		if !healthy {
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status":       overall,
			"dependencies": statuses,
		})
	}
}
