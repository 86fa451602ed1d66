// Package handler exposes the public incident-reporting API.
package handler

import (
	"net/http"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
	"github.com/netanyamuni/incident-backend/internal/incident/service"
	"github.com/netanyamuni/incident-backend/internal/incident/validate"
	"github.com/netanyamuni/incident-backend/pkg/errors"
	"github.com/netanyamuni/incident-backend/pkg/httputil"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// SubmitResponse is the success body for POST /incidents/submit.
type SubmitResponse struct {
	Success       bool                   `json:"success"`
	TicketID      string                 `json:"ticket_id"`
	CorrelationID string                 `json:"correlation_id"`
	HasFile       bool                   `json:"has_file"`
	FileInfo      *domain.FileInfo       `json:"file_info,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Message       string                 `json:"message"`
}

// IncidentHandler handles HTTP requests for incident submission.
type IncidentHandler struct {
	service *service.IncidentService
	debug   bool
	log     *logger.Logger
}

// NewIncidentHandler creates an incident handler.
func NewIncidentHandler(svc *service.IncidentService, debug bool, log *logger.Logger) *IncidentHandler {
	return &IncidentHandler{
		service: svc,
		debug:   debug,
		log:     log.WithComponent("api.incidents"),
	}
}

// Submit handles POST /incidents/submit.
//
// Error mapping: malformed JSON 400; declared file size over the cap 413;
// schema validation 422 with per-field details; file validation 422;
// business failures 422 or 500 by classification; anything else 500 with
// detail only in debug mode.
func (h *IncidentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	correlationID := httputil.GetCorrelationID(r.Context())
	log := h.log.WithCorrelationID(correlationID)

	var sub domain.IncidentSubmission
	if err := httputil.DecodeJSON(r, &sub); err != nil {
		log.Warn().Err(err).Msg("malformed request body")
		httputil.Error(w, r, err, h.debug)
		return
	}

	if err := httputil.Validate(&sub); err != nil {
		log.Warn().Err(err).Msg("request validation failed")
		httputil.Error(w, r, err, h.debug)
		return
	}

	// The declared size is checked before file validation runs so an
	// oversized upload is rejected with 413, not 422.
	if sub.ExtraFiles != nil && sub.ExtraFiles.Size > validate.MaxFileSize {
		log.Warn().Int64("size", sub.ExtraFiles.Size).Msg("file exceeds size limit")
		httputil.Error(w, r, errors.PayloadTooLarge(
			"File size exceeds maximum limit of 10MB"), h.debug)
		return
	}

	result, err := h.service.Submit(r.Context(), &sub, correlationID)
	if err != nil {
		httputil.Error(w, r, err, h.debug)
		return
	}

	httputil.JSON(w, http.StatusOK, SubmitResponse{
		Success:       result.Success,
		TicketID:      result.TicketID,
		CorrelationID: result.CorrelationID,
		HasFile:       result.HasFile,
		FileInfo:      result.FileInfo,
		Metadata:      result.Metadata,
		Message:       "Incident submitted successfully",
	})
}
