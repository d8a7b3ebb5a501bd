package status

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skilllink/backend/handlers/httputil"
)

const (
	StateOK       = "ok"
	StateDown     = "down"
	StateDisabled = "disabled"

	checkTimeout = 2 * time.Second
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// Checks groups the dependency checks. A nil Cache or Broker check reports
// the dependency as disabled.
type Checks struct {
	Database Check
	Cache    Check
	Broker   Check
}

// Health represents the current state of the service and its dependencies
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Broker   string `json:"broker"`
}

// HealthHandler reports dependency health. Only a failing database makes the
// service unavailable; cache and broker failures degrade it.
// Used by: GET /api/health
func HealthHandler(checks Checks, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		health := Health{
			Database: runCheck(ctx, "database", checks.Database, logger),
			Cache:    runCheck(ctx, "cache", checks.Cache, logger),
			Broker:   runCheck(ctx, "broker", checks.Broker, logger),
		}

		code := http.StatusOK
		switch {
		case health.Database != StateOK:
			health.Status = "unavailable"
			code = http.StatusServiceUnavailable
		case health.Cache == StateDown || health.Broker == StateDown:
			health.Status = "degraded"
		default:
			health.Status = StateOK
		}
		httputil.WriteJSON(w, code, health)
	}
}

func runCheck(ctx context.Context, name string, check Check, logger *zap.Logger) string {
	if check == nil {
		return StateDisabled
	}
	if err := check(ctx); err != nil {
		logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		return StateDown
	}
	return StateOK
}
