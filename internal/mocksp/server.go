package mocksp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/netanyamuni/incident-backend/internal/sharepoint"
	"github.com/netanyamuni/incident-backend/pkg/httputil"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

const maxUploadSize = 20 << 20 // 20MB

// requiredPayloadFields must be present and non-empty in every submission.
var requiredPayloadFields = []string{"eventCallDesc", "callerFirstName", "callerLastName"}

// Server implements the mock SharePoint HTTP surface.
type Server struct {
	store   *Store
	tickets *sharepoint.TicketGenerator
	log     *logger.Logger
}

// NewServer creates a mock SharePoint server over the given store.
func NewServer(store *Store, log *logger.Logger) *Server {
	return &Server{
		store:   store,
		tickets: sharepoint.NewTicketGenerator(),
		log:     log.WithComponent("mock_sharepoint"),
	}
}

// Routes registers the mock endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/incidents", s.SubmitIncident)
	r.Get("/api/incidents/{ticketID}", s.GetIncident)
	r.Get("/admin/incidents", s.ListIncidents)
	r.Get("/admin/requests", s.ListRequests)
	r.Post("/admin/reset", s.Reset)
	r.Get("/health", s.Health)
}

// SubmitIncident handles POST /api/incidents, mimicking the NetanyaMuni
// endpoint: a multipart body with a "json" field and an optional
// "attachment" file, answered with the SharePoint response envelope.
func (s *Server) SubmitIncident(w http.ResponseWriter, r *http.Request) {
	payload, hasFile, err := s.parseSubmission(r)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to parse incident submission")
		s.respond(w, http.StatusBadRequest, sharepoint.Response{
			ResultCode:       http.StatusBadRequest,
			ErrorDescription: err.Error(),
			ResultStatus:     "ERROR",
		})
		return
	}

	if payload == nil {
		s.respond(w, http.StatusBadRequest, sharepoint.Response{
			ResultCode:       http.StatusBadRequest,
			ErrorDescription: "Missing incident data",
			ResultStatus:     "ERROR",
		})
		return
	}

	var missing []string
	for _, field := range requiredPayloadFields {
		if v, ok := payload[field].(string); !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		s.respond(w, http.StatusUnprocessableEntity, sharepoint.Response{
			ResultCode:       http.StatusUnprocessableEntity,
			ErrorDescription: "Missing required fields: " + strings.Join(missing, ", "),
			ResultStatus:     "ERROR",
		})
		return
	}

	ticketID := s.tickets.Generate()

	s.store.AddIncident(
		Incident{
			TicketID:  ticketID,
			Payload:   payload,
			HasFile:   hasFile,
			Timestamp: timestamp(),
			Status:    "submitted",
		},
		RequestLogEntry{
			Timestamp: timestamp(),
			TicketID:  ticketID,
			Method:    r.Method,
			PayloadSummary: map[string]interface{}{
				"caller":      fmt.Sprintf("%v %v", payload["callerFirstName"], payload["callerLastName"]),
				"description": summarize(payload["eventCallDesc"]),
				"has_file":    hasFile,
			},
		},
	)

	s.log.Info().Str("ticket_id", ticketID).Bool("has_file", hasFile).Msg("mock incident created")

	s.respond(w, http.StatusOK, sharepoint.Response{
		ResultCode:   http.StatusOK,
		ResultStatus: "SUCCESS CREATE",
		Data:         ticketID,
	})
}

// parseSubmission extracts the json payload and attachment flag from a
// multipart or plain-JSON request body.
func (s *Server) parseSubmission(r *http.Request) (map[string]interface{}, bool, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(nil, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, false, fmt.Errorf("invalid multipart form: %w", err)
		}

		var payload map[string]interface{}
		if jsonField := r.FormValue("json"); jsonField != "" {
			if err := json.Unmarshal([]byte(jsonField), &payload); err != nil {
				return nil, false, fmt.Errorf("invalid JSON format: %w", err)
			}
		}

		hasFile := false
		if r.MultipartForm != nil && len(r.MultipartForm.File["attachment"]) > 0 {
			hasFile = true
		}
		return payload, hasFile, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, false, err
	}
	if len(body) == 0 {
		return nil, false, nil
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("invalid JSON format: %w", err)
	}
	return payload, false, nil
}

// GetIncident handles GET /api/incidents/{ticketID}.
func (s *Server) GetIncident(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	inc, ok := s.store.GetIncident(ticketID)
	if !ok {
		s.respond(w, http.StatusNotFound, sharepoint.Response{
			ResultCode:       http.StatusNotFound,
			ErrorDescription: "Incident not found",
			ResultStatus:     "ERROR",
		})
		return
	}
	httputil.JSON(w, http.StatusOK, inc)
}

// ListIncidents handles GET /admin/incidents.
func (s *Server) ListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents := s.store.Incidents()
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"total_incidents": len(incidents),
		"incidents":       incidents,
	})
}

// ListRequests handles GET /admin/requests, returning the last 10.
func (s *Server) ListRequests(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"total_requests": s.store.RequestCount(),
		"requests":       s.store.RecentRequests(10),
	})
}

// Reset handles POST /admin/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	s.log.Info().Msg("mock data reset")
	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "Mock data reset successfully",
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "mock-sharepoint",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, resp sharepoint.Response) {
	httputil.JSON(w, status, resp)
}

func summarize(v interface{}) string {
	str, _ := v.(string)
	runes := []rune(str)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return str
}
