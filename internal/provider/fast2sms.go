package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// DefaultFast2SMSURL is the Fast2SMS bulk send endpoint.
const DefaultFast2SMSURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMSConfig holds the gateway credentials and the staff phone number.
type Fast2SMSConfig struct {
	URL         string
	APIKey      string
	ToPhone     string
	CountryCode string
	Timeout     time.Duration
}

type fast2SMSRequest struct {
	Route   string `json:"route"`
	Message string `json:"message"`
	Numbers string `json:"numbers"`
	Flash   int    `json:"flash"`
}

type fast2SMSResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// Fast2SMSProvider texts a short inquiry summary to the staff phone.
type Fast2SMSProvider struct {
	cfg        Fast2SMSConfig
	numbers    string
	httpClient *http.Client
}

func NewFast2SMSProvider(cfg Fast2SMSConfig) *Fast2SMSProvider {
	if cfg.URL == "" {
		cfg.URL = DefaultFast2SMSURL
	}
	return &Fast2SMSProvider{
		cfg:        cfg,
		numbers:    NormalizeNumbers(cfg.ToPhone, cfg.CountryCode),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Fast2SMSProvider) Channel() domain.Channel { return domain.ChannelSMS }

func (p *Fast2SMSProvider) Name() string { return "fast2sms" }

// Send posts one quick-route SMS. Success is the gateway's "return" flag,
// not the HTTP status alone.
func (p *Fast2SMSProvider) Send(ctx context.Context, req domain.NotificationRequest) (*SendResponse, error) {
	payload := fast2SMSRequest{
		Route:   "q",
		Message: ComposeSMS(req),
		Numbers: p.numbers,
		Flash:   0,
	}
	headers := map[string]string{"authorization": p.cfg.APIKey}

	status, body, err := postJSON(ctx, p.httpClient, p.cfg.URL, headers, payload)
	if err != nil {
		return nil, domain.NewTransportError(domain.ChannelSMS, err)
	}

	var resp fast2SMSResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if !isSuccess(status) {
			return nil, domain.NewTransportError(domain.ChannelSMS,
				fmt.Errorf("unexpected provider status: %d: %s", status, snippet(body)))
		}
		return nil, domain.NewTransportError(domain.ChannelSMS, fmt.Errorf("decode response: %w", err))
	}
	if !isSuccess(status) || !resp.Return {
		reason := providerMessage(resp.Message)
		if reason == "" {
			reason = "SMS sending failed"
		}
		return nil, domain.NewTransportError(domain.ChannelSMS,
			fmt.Errorf("status %d: %s", status, reason))
	}

	id := resp.RequestID
	if id == "" {
		id = "accepted"
	}
	return &SendResponse{MessageID: id}, nil
}

// providerMessage reads Fast2SMS's "message" field, which is either a string
// or an array of strings.
func providerMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// NormalizeNumbers strips the country-code prefix and every non-digit from each
// comma-separated number, as the gateway expects bare national numbers.
func NormalizeNumbers(raw, countryCode string) string {
	var out []string
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if countryCode != "" {
			n = strings.TrimPrefix(n, countryCode)
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, n)
		if digits != "" {
			out = append(out, digits)
		}
	}
	return strings.Join(out, ",")
}

// compile-time check that Fast2SMSProvider implements Provider
var _ Provider = (*Fast2SMSProvider)(nil)
