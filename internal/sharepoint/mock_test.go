package sharepoint_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanyamuni/incident-backend/internal/sharepoint"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

var ticketPattern = regexp.MustCompile(`^NETANYA-\d{4}-\d{6}$`)

func TestTicketGenerator_Format(t *testing.T) {
	gen := sharepoint.NewTicketGenerator()

	ticket := gen.Generate()
	assert.Regexp(t, ticketPattern, ticket)
	assert.Contains(t, ticket, fmt.Sprintf("NETANYA-%d-", time.Now().Year()))
}

func TestTicketGenerator_SequentialUniqueness(t *testing.T) {
	gen := sharepoint.NewTicketGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ticket := gen.Generate()
		assert.False(t, seen[ticket], "ticket %s repeated", ticket)
		seen[ticket] = true
	}
}

func TestTicketGenerator_ConcurrentSafety(t *testing.T) {
	gen := sharepoint.NewTicketGenerator()

	const workers = 10
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ticket := gen.Generate()
				mu.Lock()
				seen[ticket] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestMockClient_Submit(t *testing.T) {
	mock := sharepoint.NewMockClient(logger.New("test", "test"))

	resp, err := mock.Submit(context.Background(), samplePayload(), nil)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.ResultCode)
	assert.Equal(t, "SUCCESS CREATE", resp.ResultStatus)
	assert.Regexp(t, ticketPattern, resp.Data)
}

func TestMockClient_ErrorSimulation(t *testing.T) {
	mock := sharepoint.NewMockClient(logger.New("test", "test"))
	mock.SimulateError("simulated rejection", 400)

	_, err := mock.Submit(context.Background(), samplePayload(), nil)
	require.Error(t, err)

	var apiErr *sharepoint.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "simulated rejection", apiErr.Description)
	assert.True(t, apiErr.IsValidationLike())

	// Back to success after clearing the simulation.
	mock.SimulateSuccess()
	resp, err := mock.Submit(context.Background(), samplePayload(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Data)
}
