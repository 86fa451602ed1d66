package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// TicketGenerator issues mock ticket ids in the NETANYA-<year>-<6 digits>
// format. The counter plus unix-millisecond timestamp strictly increases
// per call, so ids are unique within a process lifetime.
type TicketGenerator struct {
	mu      sync.Mutex
	counter int64
}

// NewTicketGenerator creates a ticket generator.
func NewTicketGenerator() *TicketGenerator {
	return &TicketGenerator{}
}

// Generate returns the next ticket id.
func (g *TicketGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++
	unique := (time.Now().UnixMilli() + g.counter) % 1000000
	return fmt.Sprintf("NETANYA-%d-%06d", time.Now().Year(), unique)
}

// MockClient implements Submitter without any network I/O. It can be
// switched into an error-simulation mode for testing failure paths.
type MockClient struct {
	tickets *TicketGenerator
	log     *logger.Logger

	mu            sync.Mutex
	simulateError bool
	errorCode     int
	errorMessage  string
}

// NewMockClient creates a mock submitter configured for success.
func NewMockClient(log *logger.Logger) *MockClient {
	return &MockClient{
		tickets: NewTicketGenerator(),
		log:     log.WithComponent("mock_sharepoint"),
	}
}

// SimulateError configures the mock to return a business failure with the
// given code and message on subsequent submissions.
func (m *MockClient) SimulateError(message string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateError = true
	m.errorCode = code
	m.errorMessage = message
	m.log.Info().Int("code", code).Str("message", message).Msg("mock configured for error simulation")
}

// SimulateSuccess restores normal successful responses.
func (m *MockClient) SimulateSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateError = false
}

// Submit returns a simulated endpoint response. The error-simulation mode
// produces the same *APIError the real client would surface for a
// business failure.
func (m *MockClient) Submit(ctx context.Context, payload *domain.MunicipalityPayload, file *domain.DecodedFile) (*Response, error) {
	m.mu.Lock()
	simulateError, code, message := m.simulateError, m.errorCode, m.errorMessage
	m.mu.Unlock()

	m.log.Info().
		Str("caller", payload.CallerFirstName+" "+payload.CallerLastName).
		Bool("has_file", file != nil).
		Msg("mock SharePoint submission")

	if simulateError {
		return nil, &APIError{Code: code, Description: message}
	}

	ticketID := m.tickets.Generate()
	m.log.Info().Str("ticket_id", ticketID).Msg("mock submission successful")

	return &Response{
		ResultCode:       http.StatusOK,
		ErrorDescription: "",
		ResultStatus:     "SUCCESS CREATE",
		Data:             ticketID,
	}, nil
}
