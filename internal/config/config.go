package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/otharalodge/inquiry-relay/internal/provider"
)

// Email transports.
const (
	TransportEmailJS = "emailjs"
	TransportSMTP    = "smtp"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only STAFF_EMAIL and the credentials of
// the selected email transport are required.
type Config struct {
	// Server
	HTTPPort           string        `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout        time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout       time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	// Staff recipient
	StaffEmail string `envconfig:"STAFF_EMAIL"`
	StaffName  string `envconfig:"STAFF_NAME" default:"Othara Lodge"`
	// StaffPhone enables the SMS channel together with Fast2SMSAPIKey.
	StaffPhone string `envconfig:"STAFF_PHONE"`

	// EmailTransport selects the email provider: "emailjs" or "smtp".
	EmailTransport string `envconfig:"EMAIL_TRANSPORT" default:"emailjs"`

	EmailJSURL        string `envconfig:"EMAILJS_URL" default:"https://api.emailjs.com/api/v1.0/email/send"`
	EmailJSServiceID  string `envconfig:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string `envconfig:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey  string `envconfig:"EMAILJS_PUBLIC_KEY"`
	EmailJSPrivateKey string `envconfig:"EMAILJS_PRIVATE_KEY"`

	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom       string `envconfig:"SMTP_FROM"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`

	Fast2SMSURL    string `envconfig:"FAST2SMS_URL" default:"https://www.fast2sms.com/dev/bulkV2"`
	Fast2SMSAPIKey string `envconfig:"FAST2SMS_API_KEY"`
	SMSCountryCode string `envconfig:"SMS_COUNTRY_CODE" default:"+91"`

	// Dispatch
	ChannelTimeout   time.Duration `envconfig:"CHANNEL_TIMEOUT" default:"10s"`
	ChannelRateLimit int           `envconfig:"CHANNEL_RATE_LIMIT" default:"10"`
	IdempotencyTTL   time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`
	DateLayout       string        `envconfig:"DATE_LAYOUT" default:"1/2/2006"`
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the staff recipient and the selected email transport
// are fully configured.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StaffEmail) == "" {
		return errors.New("STAFF_EMAIL is required")
	}

	var missing []string
	require := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	switch c.EmailTransport {
	case TransportEmailJS:
		require("EMAILJS_SERVICE_ID", c.EmailJSServiceID)
		require("EMAILJS_TEMPLATE_ID", c.EmailJSTemplateID)
		require("EMAILJS_PUBLIC_KEY", c.EmailJSPublicKey)
	case TransportSMTP:
		require("SMTP_HOST", c.SMTPHost)
		require("SMTP_FROM", c.SMTPFrom)
		switch c.SMTPEncryption {
		case "none", "starttls", "ssl_tls":
		default:
			return fmt.Errorf("SMTP_ENCRYPTION must be none, starttls or ssl_tls, got %q", c.SMTPEncryption)
		}
	default:
		return fmt.Errorf("EMAIL_TRANSPORT must be %q or %q, got %q", TransportEmailJS, TransportSMTP, c.EmailTransport)
	}

	if len(missing) > 0 {
		return fmt.Errorf("email transport %s: missing %s", c.EmailTransport, strings.Join(missing, ", "))
	}
	return nil
}

// SMSEnabled reports whether the SMS channel should be configured.
func (c *Config) SMSEnabled() bool {
	return c.StaffPhone != "" && c.Fast2SMSAPIKey != ""
}

// Providers builds the channel set in dispatch order: email first, then SMS
// when enabled.
func (c *Config) Providers() []provider.Provider {
	var email provider.Provider
	switch c.EmailTransport {
	case TransportSMTP:
		email = provider.NewSMTPProvider(provider.SMTPConfig{
			Host:       c.SMTPHost,
			Port:       c.SMTPPort,
			Username:   c.SMTPUsername,
			Password:   c.SMTPPassword,
			From:       c.SMTPFrom,
			To:         c.StaffEmail,
			Encryption: c.SMTPEncryption,
			Timeout:    c.ChannelTimeout,
		})
	default:
		email = provider.NewEmailJSProvider(provider.EmailJSConfig{
			URL:        c.EmailJSURL,
			ServiceID:  c.EmailJSServiceID,
			TemplateID: c.EmailJSTemplateID,
			PublicKey:  c.EmailJSPublicKey,
			PrivateKey: c.EmailJSPrivateKey,
			ToEmail:    c.StaffEmail,
			ToName:     c.StaffName,
			Timeout:    c.ChannelTimeout,
		})
	}

	providers := []provider.Provider{email}
	if c.SMSEnabled() {
		providers = append(providers, provider.NewFast2SMSProvider(provider.Fast2SMSConfig{
			URL:         c.Fast2SMSURL,
			APIKey:      c.Fast2SMSAPIKey,
			ToPhone:     c.StaffPhone,
			CountryCode: c.SMSCountryCode,
			Timeout:     c.ChannelTimeout,
		}))
	}
	return providers
}
