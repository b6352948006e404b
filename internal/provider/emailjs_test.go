package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otharalodge/inquiry-relay/internal/domain"
	"github.com/otharalodge/inquiry-relay/internal/provider"
)

var contactReq = domain.NotificationRequest{
	Kind:        domain.KindContact,
	SenderName:  "Asha Menon",
	SenderEmail: "asha@example.com",
	SenderPhone: "9876543210",
	Subject:     "Airport pickup",
	Body:        "Do you offer pickup from Kochi airport?",
}

func newEmailJS(url string) *provider.EmailJSProvider {
	return provider.NewEmailJSProvider(provider.EmailJSConfig{
		URL:        url,
		ServiceID:  "service_x",
		TemplateID: "template_y",
		PublicKey:  "public_z",
		ToEmail:    "staff@othara.example",
		ToName:     "Othara Lodge",
		Timeout:    time.Second,
	})
}

func TestEmailJSProvider_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	p := newEmailJS(srv.URL)
	resp, err := p.Send(context.Background(), contactReq)
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.MessageID)
	assert.Equal(t, domain.ChannelEmail, p.Channel())

	assert.Equal(t, "service_x", got["service_id"])
	assert.Equal(t, "template_y", got["template_id"])
	assert.Equal(t, "public_z", got["user_id"])
	assert.NotContains(t, got, "accessToken")

	params, ok := got["template_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "staff@othara.example", params["to_email"])
	assert.Equal(t, "Asha Menon", params["from_name"])
	assert.Equal(t, "asha@example.com", params["from_email"])
	assert.Equal(t, "Airport pickup", params["subject"])
	assert.Equal(t, contactReq.Body, params["message"])
	assert.Equal(t, "9876543210", params["phone"])
}

func TestEmailJSProvider_MessageIDFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messageId":"msg-42"}`))
	}))
	defer srv.Close()

	resp, err := newEmailJS(srv.URL).Send(context.Background(), contactReq)
	require.NoError(t, err)
	assert.Equal(t, "msg-42", resp.MessageID)
}

func TestEmailJSProvider_Non2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The Public Key is invalid"))
	}))
	defer srv.Close()

	_, err := newEmailJS(srv.URL).Send(context.Background(), contactReq)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChannelTransport)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Public Key is invalid")
}

func TestEmailJSProvider_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newEmailJS(url).Send(context.Background(), contactReq)
	assert.ErrorIs(t, err, domain.ErrChannelTransport)
}
