package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otharalodge/inquiry-relay/internal/config"
	"github.com/otharalodge/inquiry-relay/internal/domain"
)

func setEmailJSEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STAFF_EMAIL", "frontdesk@otharalodge.example")
	t.Setenv("EMAILJS_SERVICE_ID", "service_x")
	t.Setenv("EMAILJS_TEMPLATE_ID", "template_y")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pk_z")
}

func TestLoad_Defaults(t *testing.T) {
	setEmailJSEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "Othara Lodge", cfg.StaffName)
	assert.Equal(t, config.TransportEmailJS, cfg.EmailTransport)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "+91", cfg.SMSCountryCode)
	assert.Equal(t, 10*time.Second, cfg.ChannelTimeout)
	assert.Equal(t, 10, cfg.ChannelRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
	assert.Equal(t, "1/2/2006", cfg.DateLayout)
}

func TestLoad_StaffEmailRequired(t *testing.T) {
	setEmailJSEnv(t)
	t.Setenv("STAFF_EMAIL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "STAFF_EMAIL")
}

func TestLoad_BadDuration(t *testing.T) {
	setEmailJSEnv(t)
	t.Setenv("CHANNEL_TIMEOUT", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate_Transports(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name:    "emailjs missing keys",
			cfg:     config.Config{StaffEmail: "a@b.co", EmailTransport: "emailjs", EmailJSServiceID: "s"},
			wantErr: "missing EMAILJS_TEMPLATE_ID, EMAILJS_PUBLIC_KEY",
		},
		{
			name:    "smtp missing host",
			cfg:     config.Config{StaffEmail: "a@b.co", EmailTransport: "smtp", SMTPFrom: "x@y.co", SMTPEncryption: "starttls"},
			wantErr: "missing SMTP_HOST",
		},
		{
			name:    "smtp bad encryption",
			cfg:     config.Config{StaffEmail: "a@b.co", EmailTransport: "smtp", SMTPHost: "h", SMTPFrom: "x@y.co", SMTPEncryption: "tls1.3"},
			wantErr: "SMTP_ENCRYPTION",
		},
		{
			name:    "unknown transport",
			cfg:     config.Config{StaffEmail: "a@b.co", EmailTransport: "pigeon"},
			wantErr: "EMAIL_TRANSPORT",
		},
		{
			name: "smtp ok",
			cfg:  config.Config{StaffEmail: "a@b.co", EmailTransport: "smtp", SMTPHost: "h", SMTPFrom: "x@y.co", SMTPEncryption: "ssl_tls"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestProviders(t *testing.T) {
	cfg := config.Config{StaffEmail: "a@b.co", EmailTransport: config.TransportEmailJS}

	providers := cfg.Providers()
	require.Len(t, providers, 1)
	assert.Equal(t, domain.ChannelEmail, providers[0].Channel())
	assert.Equal(t, "emailjs", providers[0].Name())

	// SMS needs both the staff phone and the API key.
	cfg.StaffPhone = "9876543210"
	assert.Len(t, cfg.Providers(), 1)

	cfg.Fast2SMSAPIKey = "key"
	cfg.EmailTransport = config.TransportSMTP
	providers = cfg.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "smtp", providers[0].Name())
	assert.Equal(t, domain.ChannelSMS, providers[1].Channel())
}
