package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otharalodge/inquiry-relay/internal/api"
	"github.com/otharalodge/inquiry-relay/internal/api/handler"
	"github.com/otharalodge/inquiry-relay/internal/dispatcher"
	"github.com/otharalodge/inquiry-relay/internal/domain"
	"github.com/otharalodge/inquiry-relay/internal/formatter"
	"github.com/otharalodge/inquiry-relay/internal/metrics"
	"github.com/otharalodge/inquiry-relay/internal/provider"
	"github.com/otharalodge/inquiry-relay/internal/service"
)

type stubProvider struct {
	channel domain.Channel
	err     error
	calls   atomic.Int32
}

func (p *stubProvider) Channel() domain.Channel { return p.channel }
func (p *stubProvider) Name() string            { return "stub" }

func (p *stubProvider) Send(context.Context, domain.NotificationRequest) (*provider.SendResponse, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &provider.SendResponse{MessageID: "msg-" + string(p.channel)}, nil
}

func newServer(t *testing.T, providers ...provider.Provider) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	d, err := dispatcher.NewDispatcher(providers, nil, time.Second, zap.NewNop(), m.DispatcherHooks())
	require.NoError(t, err)
	svc := service.NewInquiryService(formatter.New(""), d, time.Minute, zap.NewNop())
	return api.NewRouter(svc, reg, []string{"https://otharalodge.example"}, zap.NewNop())
}

func post(h http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const bookingBody = `{
	"checkIn": "2024-06-01",
	"checkOut": "2024-06-03",
	"roomType": "deluxe",
	"guests": 2,
	"name": "Jane Doe",
	"email": "jane@example.com",
	"phone": "+919876543210",
	"specialRequests": ""
}`

const contactBody = `{"name":"Ravi","email":"ravi@example.com","subject":"Parking","message":"Is there parking?"}`

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.InquiryResponse {
	t.Helper()
	var resp handler.InquiryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBooking_Success(t *testing.T) {
	email := &stubProvider{channel: domain.ChannelEmail}
	sms := &stubProvider{channel: domain.ChannelSMS}
	h := newServer(t, email, sms)

	rec := post(h, "/api/v1/inquiries/booking", bookingBody, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, handler.MsgBookingSent, resp.Message)
	assert.Equal(t, domain.AllSucceeded, resp.Outcome)
	assert.Equal(t, []domain.ChannelResult{
		domain.Delivered(domain.ChannelEmail, "msg-email"),
		domain.Delivered(domain.ChannelSMS, "msg-sms"),
	}, resp.Results)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestContact_PartialFailureCollapsesToFailed(t *testing.T) {
	email := &stubProvider{channel: domain.ChannelEmail}
	sms := &stubProvider{channel: domain.ChannelSMS, err: errors.New("invalid numbers")}
	h := newServer(t, email, sms)

	rec := post(h, "/api/v1/inquiries/contact", contactBody, nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, handler.MsgContactFailed, resp.Message)
	assert.Equal(t, domain.PartialFailure, resp.Outcome)
	assert.Equal(t, "invalid numbers", resp.Results[1].Detail)
}

func TestContact_ValidationError(t *testing.T) {
	email := &stubProvider{channel: domain.ChannelEmail}
	h := newServer(t, email)

	rec := post(h, "/api/v1/inquiries/contact",
		`{"name":"Ravi","email":"ravi-at-example","subject":"x","message":"y"}`, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "senderEmail", body["field"])
	assert.NotEmpty(t, body["error"])
	assert.Zero(t, email.calls.Load())
}

func TestBooking_BadRequests(t *testing.T) {
	email := &stubProvider{channel: domain.ChannelEmail}
	h := newServer(t, email)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"bad date", strings.Replace(bookingBody, "2024-06-01", "June 1st", 1), http.StatusBadRequest},
		{"unknown room", strings.Replace(bookingBody, "deluxe", "penthouse", 1), http.StatusUnprocessableEntity},
		{"checkout before checkin", strings.Replace(bookingBody, "2024-06-03", "2024-05-30", 1), http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(h, "/api/v1/inquiries/booking", tc.body, nil)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
	assert.Zero(t, email.calls.Load())
}

func TestContact_IdempotentReplay(t *testing.T) {
	email := &stubProvider{channel: domain.ChannelEmail}
	h := newServer(t, email)
	headers := map[string]string{"X-Idempotency-Key": "form-42"}

	first := post(h, "/api/v1/inquiries/contact", contactBody, headers)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotent-Replay"))

	second := post(h, "/api/v1/inquiries/contact", contactBody, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotent-Replay"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 1, email.calls.Load())
}

func TestRoomsHealthAndMetrics(t *testing.T) {
	h := newServer(t, &stubProvider{channel: domain.ChannelEmail})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms struct {
		Data []domain.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms.Data, 3)
	assert.Equal(t, "Presidential Suite", rooms.Data[2].Name)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","channels":["email"]}`, rec.Body.String())

	post(h, "/api/v1/inquiries/contact", contactBody, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `inquiry_channel_delivered_total{channel="email"} 1`)
	assert.Contains(t, rec.Body.String(), `inquiry_dispatch_total{outcome="all_succeeded"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h := newServer(t, &stubProvider{channel: domain.ChannelEmail})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/inquiries/contact", nil)
	req.Header.Set("Origin", "https://otharalodge.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://otharalodge.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
