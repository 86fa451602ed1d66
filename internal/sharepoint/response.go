package sharepoint

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Response is the parsed NetanyaMuni API response. Data carries the
// ticket id on success.
type Response struct {
	ResultCode       int    `json:"ResultCode"`
	ErrorDescription string `json:"ErrorDescription"`
	ResultStatus     string `json:"ResultStatus"`
	Data             string `json:"data"`
}

// APIError is a business failure reported by the endpoint: the HTTP call
// succeeded but the municipality system rejected the incident. Distinct
// from transport errors, it is never retried.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SharePoint API error (Code: %d): %s", e.Code, e.Description)
}

// IsValidationLike reports whether the business failure maps to a
// client-fixable 422 rather than a 500.
func (e *APIError) IsValidationLike() bool {
	return e.Code >= 400 && e.Code < 500
}

// ParseError indicates the endpoint returned something that is not the
// expected JSON envelope.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "invalid SharePoint response: " + e.Reason
}

// HTTPError is a non-200 status from the endpoint, surfaced before any
// body parsing.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

// Retryable reports whether the status is a transient transport failure.
func (e *HTTPError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ParseResponse validates and decodes the endpoint response. A non-200
// HTTP status yields an HTTPError; a malformed body a ParseError; a
// well-formed body with ResultCode != 200 or "ERROR" anywhere in
// ResultStatus (case-insensitive) an APIError.
func ParseResponse(statusCode int, body []byte) (*Response, error) {
	if statusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: statusCode, Body: string(body)}
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	if resp.ResultCode != http.StatusOK || strings.Contains(strings.ToUpper(resp.ResultStatus), "ERROR") {
		return nil, &APIError{Code: resp.ResultCode, Description: resp.ErrorDescription}
	}

	return &resp, nil
}
