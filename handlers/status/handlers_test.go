package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     Checks
		wantCode   int
		wantHealth Health
	}{
		{
			name:       "all up",
			checks:     Checks{Database: ok, Cache: ok, Broker: ok},
			wantCode:   http.StatusOK,
			wantHealth: Health{Status: "ok", Database: "ok", Cache: "ok", Broker: "ok"},
		},
		{
			name:       "optional dependencies disabled",
			checks:     Checks{Database: ok},
			wantCode:   http.StatusOK,
			wantHealth: Health{Status: "ok", Database: "ok", Cache: "disabled", Broker: "disabled"},
		},
		{
			name:       "cache down",
			checks:     Checks{Database: ok, Cache: fail},
			wantCode:   http.StatusOK,
			wantHealth: Health{Status: "degraded", Database: "ok", Cache: "down", Broker: "disabled"},
		},
		{
			name:       "database down",
			checks:     Checks{Database: fail, Cache: ok},
			wantCode:   http.StatusServiceUnavailable,
			wantHealth: Health{Status: "unavailable", Database: "down", Cache: "ok", Broker: "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(tt.checks, zap.NewNop())(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got Health
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantHealth, got)
		})
	}
}
