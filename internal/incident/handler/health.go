package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/netanyamuni/incident-backend/pkg/httputil"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// HealthHandler serves liveness and dependency-probe endpoints.
type HealthHandler struct {
	endpointURL string
	mockMode    bool
	httpClient  *http.Client
	log         *logger.Logger
}

// NewHealthHandler creates a health handler. endpointURL is the
// configured SharePoint endpoint used for the reachability probe.
func NewHealthHandler(endpointURL string, mockMode bool, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		endpointURL: endpointURL,
		mockMode:    mockMode,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		log:         log.WithComponent("health"),
	}
}

// Health handles GET /health (liveness).
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	mode := "production"
	if h.mockMode {
		mode = "mock"
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "incident-service",
		"version":   httputil.APIVersion,
		"mode":      mode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Detailed handles GET /health/detailed: liveness plus a best-effort
// reachability probe of the SharePoint origin. A failing probe degrades
// the status but never reports the service itself unhealthy, since
// submissions in mock mode do not need the endpoint at all.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	deps := map[string]interface{}{}

	if h.mockMode {
		deps["sharepoint"] = map[string]interface{}{
			"status":  "skipped",
			"message": "mock mode, endpoint not probed",
		}
	} else {
		probe := h.probeEndpoint(r.Context())
		deps["sharepoint"] = probe
		if probe["status"] != "healthy" {
			status = "degraded"
		}
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"service":      "incident-service",
		"dependencies": deps,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// probeEndpoint issues a HEAD request to the endpoint origin and reports
// reachability and response time.
func (h *HealthHandler) probeEndpoint(ctx context.Context) map[string]interface{} {
	u, err := url.Parse(h.endpointURL)
	if err != nil {
		return map[string]interface{}{"status": "unhealthy", "message": "invalid endpoint URL"}
	}
	origin := u.Scheme + "://" + u.Host

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, origin, nil)
	if err != nil {
		return map[string]interface{}{"status": "unhealthy", "message": err.Error()}
	}

	resp, err := h.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		h.log.Warn().Err(err).Msg("sharepoint reachability probe failed")
		return map[string]interface{}{
			"status":           "unhealthy",
			"message":          "endpoint unreachable",
			"response_time_ms": elapsed.Milliseconds(),
		}
	}
	resp.Body.Close()

	return map[string]interface{}{
		"status":           "healthy",
		"message":          "endpoint reachable",
		"http_status":      resp.StatusCode,
		"response_time_ms": elapsed.Milliseconds(),
	}
}
