// Package service orchestrates one incident submission: file validation,
// payload transformation, and submission to the municipality endpoint.
package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
	"github.com/netanyamuni/incident-backend/internal/incident/transform"
	"github.com/netanyamuni/incident-backend/internal/incident/validate"
	"github.com/netanyamuni/incident-backend/internal/sharepoint"
	"github.com/netanyamuni/incident-backend/pkg/errors"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// IncidentService runs the complete submission workflow. It is stateless;
// every request is handled independently.
type IncidentService struct {
	transformer *transform.Transformer
	files       *validate.FileValidator
	submitter   sharepoint.Submitter
	debug       bool
	log         *logger.Logger
}

// NewIncidentService creates the incident service. The submitter is the
// real or mock client, selected once at startup.
func NewIncidentService(transformer *transform.Transformer, files *validate.FileValidator, submitter sharepoint.Submitter, debug bool, log *logger.Logger) *IncidentService {
	return &IncidentService{
		transformer: transformer,
		files:       files,
		submitter:   submitter,
		debug:       debug,
		log:         log.WithComponent("incident_service"),
	}
}

// Submit validates, transforms, and forwards one incident submission.
// correlationID ties together every log line and the returned result.
func (s *IncidentService) Submit(ctx context.Context, sub *domain.IncidentSubmission, correlationID string) (*domain.SubmissionResult, error) {
	log := s.log.WithCorrelationID(correlationID)

	log.Info().
		Str("category", sub.Category.Name).
		Bool("has_file", sub.ExtraFiles != nil).
		Msg("starting incident submission")

	var file *domain.DecodedFile
	var fileInfo *domain.FileInfo

	if sub.ExtraFiles != nil {
		result := s.files.Validate(sub.ExtraFiles)
		if !result.Valid {
			details := make([]errors.FieldError, 0, len(result.Errors))
			for _, msg := range result.Errors {
				details = append(details, errors.FieldError{
					Field:   "extra_files",
					Message: msg,
					Type:    "file_validation_error",
				})
			}
			return nil, errors.FileValidation(
				"File validation failed: "+strings.Join(result.Errors, ", "), details)
		}

		decoded, err := s.files.PrepareMultipartFile(sub.ExtraFiles)
		if err != nil {
			return nil, errors.FileValidation(
				fmt.Sprintf("File validation failed: %v", err), nil)
		}
		file = decoded
		fileInfo = &domain.FileInfo{
			Filename:    sub.ExtraFiles.Filename,
			ContentType: sub.ExtraFiles.ContentType,
			Size:        sub.ExtraFiles.Size,
		}

		log.Info().
			Str("filename", sub.ExtraFiles.Filename).
			Int64("size", sub.ExtraFiles.Size).
			Msg("file validated")
	}

	payload, err := s.transformer.Transform(sub)
	if err != nil {
		return nil, err
	}

	log.Info().Str("event_call_desc", truncate(payload.EventCallDesc, 50)).Msg("payload transformed")

	resp, err := s.submitter.Submit(ctx, payload, file)
	if err != nil {
		log.Error().Err(err).Msg("submission failed")
		return nil, s.classifySubmissionError(err)
	}

	log.Info().
		Str("ticket_id", resp.Data).
		Str("status", resp.ResultStatus).
		Msg("incident submission successful")

	result := &domain.SubmissionResult{
		Success:       true,
		TicketID:      resp.Data,
		CorrelationID: correlationID,
		HasFile:       sub.ExtraFiles != nil,
		FileInfo:      fileInfo,
	}
	if s.debug {
		result.Metadata = map[string]interface{}{
			"sharepoint_status": resp.ResultStatus,
			"file_processed":    file != nil,
		}
	}
	return result, nil
}

// classifySubmissionError maps submitter failures into the API error
// taxonomy: validation-like business failures become 422, everything else
// (transport, parse, server-side business errors) 500.
func (s *IncidentService) classifySubmissionError(err error) error {
	var apiErr *sharepoint.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusInternalServerError
		if apiErr.IsValidationLike() {
			status = http.StatusUnprocessableEntity
		}
		return errors.Submission(err, "Incident submission rejected: "+apiErr.Description, status)
	}
	return errors.Submission(err, "Incident submission failed", http.StatusInternalServerError)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
