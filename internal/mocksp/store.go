// Package mocksp is a standalone mock of the NetanyaMuni SharePoint
// incidents endpoint, response-shape compatible with the real system.
package mocksp

import (
	"sync"
	"time"
)

// Incident is one stored mock submission.
type Incident struct {
	TicketID  string                 `json:"ticket_id"`
	Payload   map[string]interface{} `json:"payload"`
	HasFile   bool                   `json:"has_file"`
	Timestamp string                 `json:"timestamp"`
	Status    string                 `json:"status"`
}

// RequestLogEntry records one API request for debugging.
type RequestLogEntry struct {
	Timestamp      string                 `json:"timestamp"`
	TicketID       string                 `json:"ticket_id"`
	Method         string                 `json:"method"`
	PayloadSummary map[string]interface{} `json:"payload_summary"`
}

// Store owns all mock state. It is created at process start, injected
// into the handlers, safe for concurrent use, and reset only via the
// explicit admin operation.
type Store struct {
	mu        sync.RWMutex
	incidents map[string]Incident
	requests  []RequestLogEntry
}

// NewStore creates an empty mock store.
func NewStore() *Store {
	return &Store{
		incidents: make(map[string]Incident),
	}
}

// AddIncident stores a submitted incident and its request-log entry.
func (s *Store) AddIncident(inc Incident, entry RequestLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents[inc.TicketID] = inc
	s.requests = append(s.requests, entry)
}

// GetIncident retrieves an incident by ticket id.
func (s *Store) GetIncident(ticketID string) (Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inc, ok := s.incidents[ticketID]
	return inc, ok
}

// Incidents returns all stored incidents.
func (s *Store) Incidents() []Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		out = append(out, inc)
	}
	return out
}

// RecentRequests returns the last n request-log entries.
func (s *Store) RecentRequests(n int) []RequestLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) <= n {
		return append([]RequestLogEntry(nil), s.requests...)
	}
	return append([]RequestLogEntry(nil), s.requests[len(s.requests)-n:]...)
}

// RequestCount returns the total number of logged requests.
func (s *Store) RequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// Reset clears all stored incidents and request logs.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = make(map[string]Incident)
	s.requests = nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
