package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/mask"
	"github.com/rgdevment/service-report/internal/platform/logger"
	"github.com/rgdevment/service-report/internal/service"
)

type MockSender struct {
	calls  int32
	Reason string
}

func (m *MockSender) Send(ctx context.Context, p domain.NotificationPayload) error {
	atomic.AddInt32(&m.calls, 1)
	if m.Reason != "" {
		return &service.DispatchError{Reason: m.Reason}
	}
	return nil
}

type testServer struct {
	router   chi.Router
	sender   *MockSender
	sessions *SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sender := &MockSender{}
	locale := mask.Brazil()
	builder, err := service.NewPayloadBuilder("+5544999999999", "Clean Pool", locale)
	require.NoError(t, err)

	factory := func() (*service.Controller, error) {
		return service.NewController(service.NewValidator(), builder, sender, service.WithAutoReset(time.Hour))
	}

	sessions := NewSessionStore()
	t.Cleanup(sessions.CloseAll)

	h := NewHandler(sessions, factory, locale, time.Second, logger.NewTestLogger(t))
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	return &testServer{router: r, sender: sender, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) openSession(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) service.View {
	t.Helper()
	var v service.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestListServices(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/v1/services", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.Catalogue, resp["services"])
}

func TestMaskEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/mask/phone", MaskRequest{Value: "11987654321"})
	require.Equal(t, http.StatusOK, rec.Code)
	var phone PhoneMaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&phone))
	assert.Equal(t, PhoneMaskResponse{
		Masked:    "(11) 98765-4321",
		Canonical: "+5511987654321",
		Display:   "(11) 98765-4321",
	}, phone)

	rec = s.do(t, http.MethodPost, "/v1/mask/currency", MaskRequest{Value: "199.90"})
	require.Equal(t, http.StatusOK, rec.Code)
	var amount CurrencyMaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&amount))
	assert.Equal(t, "199,90", amount.Masked)
	assert.Equal(t, 199.9, amount.Numeric)
	assert.Equal(t, "R$ 199,90", amount.Display)

	req := httptest.NewRequest(http.MethodPost, "/v1/mask/phone", bytes.NewBufferString("{"))
	bad := httptest.NewRecorder()
	s.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestSessionHappyPath(t *testing.T) {
	s := newTestServer(t)
	id := s.openSession(t)

	other := "Troca de areia"
	rec := s.do(t, http.MethodPatch, "/v1/sessions/"+id, map[string]string{
		"service":       domain.OtherServiceLabel,
		"service_other": other,
		"professional":  "João Silva",
		"phone":         "11987654321",
		"amount":        "199.90",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, "(11) 98765-4321", view.Fields.PhoneRaw)
	assert.Equal(t, "199,90", view.Fields.Amount)
	assert.Equal(t, domain.Custom(other), view.Fields.Service)

	rec = s.do(t, http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, domain.Success, view.State)
	assert.Equal(t, domain.ServiceReport{}, view.Fields)
	assert.EqualValues(t, 1, atomic.LoadInt32(&s.sender.calls))

	// the success screen does not accept another submit
	rec = s.do(t, http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionValidationFailure(t *testing.T) {
	s := newTestServer(t)
	id := s.openSession(t)

	rec := s.do(t, http.MethodPatch, "/v1/sessions/"+id, map[string]string{"phone": "1198"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Errors, 4)
	assert.Equal(t, service.Messages[domain.FieldPhone], resp.Errors[domain.FieldPhone])
	require.NotNil(t, resp.View)
	assert.Equal(t, domain.Idle, resp.View.State)
	assert.Zero(t, atomic.LoadInt32(&s.sender.calls))
}

func TestSessionDispatchFailure(t *testing.T) {
	s := newTestServer(t)
	s.sender.Reason = "HTTP 500"
	id := s.openSession(t)

	rec := s.do(t, http.MethodPatch, "/v1/sessions/"+id, map[string]string{
		"service":      "Aspiração",
		"professional": "Ana",
		"phone":        "4433334444",
		"amount":       "80",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "HTTP 500", resp.Error)
	require.NotNil(t, resp.View)
	assert.Equal(t, domain.Failed("HTTP 500"), resp.View.State)
	assert.Equal(t, "Ana", resp.View.Fields.Professional)
}

func TestUpdateSessionRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	id := s.openSession(t)

	rec := s.do(t, http.MethodPatch, "/v1/sessions/"+id, map[string]string{"service": "Pintura"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/v1/sessions/"+id, map[string]string{"service_other": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionNotFoundAndDelete(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/sessions/nope", nil).Code)

	id := s.openSession(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/v1/sessions/"+id, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/v1/sessions/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/v1/sessions/"+id, nil).Code)
	assert.Zero(t, s.sessions.Len())
}
