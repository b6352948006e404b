package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// DefaultEmailJSURL is the EmailJS REST send endpoint.
const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSConfig holds the EmailJS identifiers and the staff mailbox every
// inquiry is routed to.
type EmailJSConfig struct {
	URL        string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	ToEmail    string
	ToName     string
	Timeout    time.Duration
}

type emailJSRequest struct {
	ServiceID      string        `json:"service_id"`
	TemplateID     string        `json:"template_id"`
	UserID         string        `json:"user_id"`
	AccessToken    string        `json:"accessToken,omitempty"`
	TemplateParams emailJSParams `json:"template_params"`
}

type emailJSParams struct {
	ToEmail   string `json:"to_email"`
	ToName    string `json:"to_name"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	ReplyTo   string `json:"reply_to"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Phone     string `json:"phone"`
}

// EmailJSProvider delivers inquiries through the EmailJS transactional API.
// The URL is injected from config so tests can point it at httptest.
type EmailJSProvider struct {
	cfg        EmailJSConfig
	httpClient *http.Client
}

func NewEmailJSProvider(cfg EmailJSConfig) *EmailJSProvider {
	if cfg.URL == "" {
		cfg.URL = DefaultEmailJSURL
	}
	return &EmailJSProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *EmailJSProvider) Channel() domain.Channel { return domain.ChannelEmail }

func (p *EmailJSProvider) Name() string { return "emailjs" }

// Send posts the template parameters. Any 2xx is success; EmailJS normally
// answers with a bare "OK", so the message id falls back to "accepted".
func (p *EmailJSProvider) Send(ctx context.Context, req domain.NotificationRequest) (*SendResponse, error) {
	payload := emailJSRequest{
		ServiceID:   p.cfg.ServiceID,
		TemplateID:  p.cfg.TemplateID,
		UserID:      p.cfg.PublicKey,
		AccessToken: p.cfg.PrivateKey,
		TemplateParams: emailJSParams{
			ToEmail:   p.cfg.ToEmail,
			ToName:    p.cfg.ToName,
			FromName:  req.SenderName,
			FromEmail: req.SenderEmail,
			ReplyTo:   req.SenderEmail,
			Subject:   req.Subject,
			Message:   req.Body,
			Phone:     req.SenderPhone,
		},
	}

	status, body, err := postJSON(ctx, p.httpClient, p.cfg.URL, nil, payload)
	if err != nil {
		return nil, domain.NewTransportError(domain.ChannelEmail, err)
	}
	if !isSuccess(status) {
		return nil, domain.NewTransportError(domain.ChannelEmail,
			fmt.Errorf("unexpected provider status: %d: %s", status, snippet(body)))
	}

	return &SendResponse{MessageID: emailJSMessageID(body)}, nil
}

func emailJSMessageID(body []byte) string {
	var ack struct {
		MessageID string `json:"messageId"`
		ID        string `json:"id"`
	}
	if err := json.Unmarshal(body, &ack); err == nil {
		if ack.MessageID != "" {
			return ack.MessageID
		}
		if ack.ID != "" {
			return ack.ID
		}
	}
	return "accepted"
}

// compile-time check that EmailJSProvider implements Provider
var _ Provider = (*EmailJSProvider)(nil)
