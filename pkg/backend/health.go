package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
)

const pathHealth = "/api/v1/health"

type HealthStatus struct {
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// Health reports whether the backend is up. Unwrapped endpoint, no envelope.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	body, err := c.doRaw(ctx, http.MethodGet, pathHealth, nil)
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBackend, err, "decoding health status")
	}
	c.metrics.IncSuccess(pathHealth)
	return &status, nil
}
