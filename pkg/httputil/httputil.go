package httputil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/netanyamuni/incident-backend/pkg/errors"
)

// APIVersion is echoed on every response from the incident API.
const APIVersion = "1.0"

// ErrorResponse is the error envelope returned to clients.
type ErrorResponse struct {
	Error         string      `json:"error"`
	Details       interface{} `json:"details,omitempty"`
	CorrelationID string      `json:"correlation_id"`
	Timestamp     string      `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// Error converts an error into the client-visible error envelope. The
// correlation id is taken from the request context and always preserved.
// When debug is false, 5xx messages are sanitized and raw detail is
// suppressed.
func Error(w http.ResponseWriter, r *http.Request, err error, debug bool) {
	correlationID := GetCorrelationID(r.Context())

	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.Internal("an unexpected error occurred")
	}

	message := appErr.Message
	var details interface{}
	if len(appErr.Details) > 0 {
		details = appErr.Details
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		if debug {
			if appErr.Err != nil {
				details = appErr.Err.Error()
			}
		} else {
			message = errors.Sanitize(message)
			if appErr.Code == "SUBMISSION_ERROR" && appErr.Err != nil {
				details = errors.Sanitize(appErr.Err.Error())
			}
		}
	}

	JSON(w, appErr.StatusCode, ErrorResponse{
		Error:         message,
		Details:       details,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeJSON decodes the request body into the provided struct
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}
