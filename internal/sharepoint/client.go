// Package sharepoint implements the outbound contract with the
// NetanyaMuni SharePoint incidents endpoint: WebKit-style multipart
// bodies, browser-identical headers, optional session establishment, and
// response classification.
package sharepoint

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

const (
	originURL         = "https://www.netanya.muni.il"
	refererURL        = "https://www.netanya.muni.il/CityHall/ServicesInnovation/Pages/PublicComplaints.aspx"
	defaultUserAgent  = "Mozilla/5.0 (compatible; NetanyaIncidentService/1.0)"
	acceptHeaderValue = "application/json;odata=verbose"
)

// Submitter is the single seam between the incident service and the
// municipality system. The real client and the in-process mock both
// implement it; one is selected at startup.
type Submitter interface {
	Submit(ctx context.Context, payload *domain.MunicipalityPayload, file *domain.DecodedFile) (*Response, error)
}

// Options configures the real client.
type Options struct {
	EndpointURL      string
	Timeout          time.Duration
	MaxRetries       int
	BackoffFactor    float64
	EstablishSession bool

	// Session overrides the default page crawler. Mainly a test seam.
	Session SessionEstablisher
}

// Client submits incidents to the real NetanyaMuni endpoint.
type Client struct {
	endpointURL string
	maxRetries  int
	backoff     time.Duration
	session     SessionEstablisher
	httpClient  *http.Client
	log         *logger.Logger
}

// NewClient creates a SharePoint client. The underlying HTTP client
// carries a cookie jar so cookies harvested during session establishment
// are replayed on the POST.
func NewClient(opts Options, log *logger.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Jar:     jar,
	}

	backoffInterval := time.Duration(opts.BackoffFactor * float64(time.Second))
	if backoffInterval <= 0 {
		backoffInterval = time.Second
	}

	c := &Client{
		endpointURL: opts.EndpointURL,
		maxRetries:  opts.MaxRetries,
		backoff:     backoffInterval,
		httpClient:  httpClient,
		log:         log.WithComponent("sharepoint_client"),
	}
	switch {
	case opts.Session != nil:
		c.session = opts.Session
	case opts.EstablishSession:
		c.session = NewPageCrawler(httpClient, c.log)
	}
	return c
}

// Submit builds the multipart request and POSTs it, retrying transient
// transport failures with backoff. Business failures from the endpoint
// are returned as *APIError and never retried.
func (c *Client) Submit(ctx context.Context, payload *domain.MunicipalityPayload, file *domain.DecodedFile) (*Response, error) {
	// Best-effort cookie harvesting. Failures are logged, never fatal.
	if c.session != nil {
		if err := c.session.Establish(ctx); err != nil {
			c.log.Warn().Err(err).Msg("session establishment failed, continuing without cookies")
		}
	}

	req, err := BuildMultipartRequest(payload, file)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("caller", payload.CallerFirstName+" "+payload.CallerLastName).
		Str("street", payload.StreetDesc+" "+payload.HouseNumber).
		Bool("with_file", file != nil).
		Int("body_size", len(req.Body)).
		Msg("submitting incident to SharePoint")

	var resp *Response
	operation := func() error {
		var opErr error
		resp, opErr = c.post(ctx, req)
		if opErr == nil {
			return nil
		}
		if retryableSubmitError(opErr) {
			c.log.Warn().Err(opErr).Msg("transient submission failure, will retry")
			return opErr
		}
		return backoff.Permanent(opErr)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.backoff
	err = backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx))
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("ticket_id", resp.Data).
		Str("status", resp.ResultStatus).
		Msg("SharePoint submission successful")

	return resp, nil
}

// post performs one POST attempt and parses the response.
func (c *Client) post(ctx context.Context, req *MultipartRequest) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Origin", originURL)
	httpReq.Header.Set("Referer", refererURL)
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	httpReq.Header.Set("User-Agent", defaultUserAgent)
	httpReq.Header.Set("Accept", acceptHeaderValue)
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	httpReq.Header.Set("Content-Type", req.ContentType)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return ParseResponse(httpResp.StatusCode, body)
}

// retryableSubmitError reports whether a submission attempt failed in a
// way worth retrying: network-level errors and 429/5xx statuses.
// Business failures and malformed responses are final.
func retryableSubmitError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	// Transport error (timeout, connection reset, DNS).
	return true
}
