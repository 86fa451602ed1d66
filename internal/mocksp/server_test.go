package mocksp_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanyamuni/incident-backend/internal/mocksp"
	"github.com/netanyamuni/incident-backend/internal/sharepoint"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *mocksp.Store) {
	t.Helper()
	store := mocksp.NewStore()
	srv := mocksp.NewServer(store, logger.New("test", "test"))

	r := chi.NewRouter()
	srv.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, store
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"eventCallSourceId": 4,
		"cityCode":          "7400",
		"cityDesc":          "נתניה",
		"eventCallDesc":     "בור בכביש",
		"houseNumber":       "12",
		"callerFirstName":   "משה",
		"callerLastName":    "כהן",
		"callerPhone1":      "0501234567",
	}
}

func submitMultipart(t *testing.T, ts *httptest.Server, payload map[string]interface{}, withFile bool) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	jsonData, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("json", string(jsonData)))

	if withFile {
		part, err := writer.CreateFormFile("attachment", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte{0xFF, 0xD8, 0xFF})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp, err := http.Post(ts.URL+"/api/incidents", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) sharepoint.Response {
	t.Helper()
	defer resp.Body.Close()
	var envelope sharepoint.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestSubmitIncident_Multipart(t *testing.T) {
	ts, store := newTestServer(t)

	resp := submitMultipart(t, ts, validPayload(), false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 200, envelope.ResultCode)
	assert.Equal(t, "SUCCESS CREATE", envelope.ResultStatus)
	assert.Regexp(t, `^NETANYA-\d{4}-\d{6}$`, envelope.Data)

	stored, ok := store.GetIncident(envelope.Data)
	require.True(t, ok)
	assert.Equal(t, "בור בכביש", stored.Payload["eventCallDesc"])
	assert.False(t, stored.HasFile)
	assert.Equal(t, "submitted", stored.Status)
}

func TestSubmitIncident_WithAttachment(t *testing.T) {
	ts, store := newTestServer(t)

	resp := submitMultipart(t, ts, validPayload(), true)
	envelope := decodeEnvelope(t, resp)
	require.Equal(t, 200, envelope.ResultCode)

	stored, ok := store.GetIncident(envelope.Data)
	require.True(t, ok)
	assert.True(t, stored.HasFile)
}

func TestSubmitIncident_PlainJSON(t *testing.T) {
	ts, _ := newTestServer(t)

	body, _ := json.Marshal(validPayload())
	resp, err := http.Post(ts.URL+"/api/incidents", "application/json", bytes.NewReader(body))
	require.NoError(t, err)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 200, envelope.ResultCode)
	assert.NotEmpty(t, envelope.Data)
}

func TestSubmitIncident_MissingRequiredFields(t *testing.T) {
	ts, _ := newTestServer(t)

	payload := validPayload()
	delete(payload, "callerFirstName")
	payload["eventCallDesc"] = ""

	resp := submitMultipart(t, ts, payload, false)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 422, envelope.ResultCode)
	assert.Equal(t, "ERROR", envelope.ResultStatus)
	assert.Contains(t, envelope.ErrorDescription, "eventCallDesc")
	assert.Contains(t, envelope.ErrorDescription, "callerFirstName")
}

func TestSubmitIncident_MalformedJSONField(t *testing.T) {
	ts, _ := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("json", "{not json"))
	require.NoError(t, writer.Close())

	resp, err := http.Post(ts.URL+"/api/incidents", writer.FormDataContentType(), &buf)
	require.NoError(t, err)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 400, envelope.ResultCode)
	assert.Equal(t, "ERROR", envelope.ResultStatus)
}

func TestSubmitIncident_EmptyBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/incidents", "application/json", strings.NewReader(""))
	require.NoError(t, err)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 400, envelope.ResultCode)
	assert.Equal(t, "Missing incident data", envelope.ErrorDescription)
}

func TestGetIncident(t *testing.T) {
	ts, _ := newTestServer(t)

	submitted := decodeEnvelope(t, submitMultipart(t, ts, validPayload(), false))

	resp, err := http.Get(ts.URL + "/api/incidents/" + submitted.Data)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var inc mocksp.Incident
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inc))
	assert.Equal(t, submitted.Data, inc.TicketID)
}

func TestGetIncident_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/incidents/NETANYA-2025-999999")
	require.NoError(t, err)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, 404, envelope.ResultCode)
	assert.Equal(t, "ERROR", envelope.ResultStatus)
}

func TestAdminIncidents(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		submitMultipart(t, ts, validPayload(), false).Body.Close()
	}

	resp, err := http.Get(ts.URL + "/admin/incidents")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Total     int               `json:"total_incidents"`
		Incidents []mocksp.Incident `json:"incidents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Incidents, 3)
}

func TestAdminRequests_CapsAtTen(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := 0; i < 15; i++ {
		submitMultipart(t, ts, validPayload(), false).Body.Close()
	}

	resp, err := http.Get(ts.URL + "/admin/requests")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Total    int                      `json:"total_requests"`
		Requests []mocksp.RequestLogEntry `json:"requests"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 15, out.Total)
	assert.Len(t, out.Requests, 10)
}

func TestAdminReset(t *testing.T) {
	ts, store := newTestServer(t)

	submitMultipart(t, ts, validPayload(), false).Body.Close()
	require.NotZero(t, store.RequestCount())

	resp, err := http.Post(ts.URL+"/admin/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Zero(t, store.RequestCount())
	assert.Empty(t, store.Incidents())
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "mock-sharepoint", out["service"])
}

func TestStore_RecentRequestsOrder(t *testing.T) {
	store := mocksp.NewStore()
	for i := 0; i < 5; i++ {
		store.AddIncident(
			mocksp.Incident{TicketID: fmt.Sprintf("NETANYA-2025-%06d", i)},
			mocksp.RequestLogEntry{TicketID: fmt.Sprintf("NETANYA-2025-%06d", i)},
		)
	}

	recent := store.RecentRequests(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "NETANYA-2025-000002", recent[0].TicketID)
	assert.Equal(t, "NETANYA-2025-000004", recent[2].TicketID)
}
