package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanyamuni/incident-backend/internal/incident/handler"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

func TestHealth(t *testing.T) {
	h := handler.NewHealthHandler("https://example.com/endpoint", true, logger.New("test", "test"))

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "incident-service", out["service"])
	assert.Equal(t, "mock", out["mode"])
}

func TestHealthDetailed_MockModeSkipsProbe(t *testing.T) {
	h := handler.NewHealthHandler("https://example.com/endpoint", true, logger.New("test", "test"))

	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	var out struct {
		Status       string                            `json:"status"`
		Dependencies map[string]map[string]interface{} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "skipped", out.Dependencies["sharepoint"]["status"])
}

func TestHealthDetailed_ProbesEndpoint(t *testing.T) {
	probed := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = true
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	h := handler.NewHealthHandler(upstream.URL+"/api/incidents", false, logger.New("test", "test"))

	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	var out struct {
		Status       string                            `json:"status"`
		Dependencies map[string]map[string]interface{} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.True(t, probed)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "healthy", out.Dependencies["sharepoint"]["status"])
}

func TestHealthDetailed_DegradedWhenUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // probe target is gone

	h := handler.NewHealthHandler(upstream.URL, false, logger.New("test", "test"))

	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Status       string                            `json:"status"`
		Dependencies map[string]map[string]interface{} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, "unhealthy", out.Dependencies["sharepoint"]["status"])
}
