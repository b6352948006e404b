package provider

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// SMTPConfig holds connection parameters for the SMTP provider.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	To         string
	Encryption string // "none", "starttls", "ssl_tls"
	Timeout    time.Duration
}

// SMTPProvider delivers inquiries to the staff mailbox over SMTP using go-mail.
type SMTPProvider struct {
	cfg SMTPConfig
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Channel() domain.Channel { return domain.ChannelEmail }

func (p *SMTPProvider) Name() string { return "smtp" }

// Send builds a multipart message (plain text plus HTML alternative) and
// delivers it in one SMTP session. The Message-ID is returned as the detail.
func (p *SMTPProvider) Send(ctx context.Context, req domain.NotificationRequest) (*SendResponse, error) {
	m, messageID, err := p.buildMessage(req)
	if err != nil {
		return nil, domain.NewTransportError(domain.ChannelEmail, err)
	}

	c, err := mail.NewClient(p.cfg.Host, p.clientOptions()...)
	if err != nil {
		return nil, domain.NewTransportError(domain.ChannelEmail, fmt.Errorf("create mail client: %w", err))
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return nil, domain.NewTransportError(domain.ChannelEmail, fmt.Errorf("deliver: %w", err))
	}

	return &SendResponse{MessageID: messageID}, nil
}

func (p *SMTPProvider) buildMessage(req domain.NotificationRequest) (*mail.Msg, string, error) {
	m := mail.NewMsg()
	if err := m.From(p.cfg.From); err != nil {
		return nil, "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(p.cfg.To); err != nil {
		return nil, "", fmt.Errorf("invalid recipient %q: %w", p.cfg.To, err)
	}
	if err := m.ReplyTo(req.SenderEmail); err != nil {
		return nil, "", fmt.Errorf("invalid reply-to %q: %w", req.SenderEmail, err)
	}

	messageID := uuid.NewString() + "@" + mailDomain(p.cfg.From)
	m.SetMessageIDWithValue(messageID)
	m.SetDate()
	m.Subject(smtpSubject(req))
	m.SetBodyString(mail.TypeTextPlain, plainBody(req))

	if html, err := renderHTML(req); err == nil {
		m.AddAlternativeString(mail.TypeTextHTML, html)
	}
	return m, "<" + messageID + ">", nil
}

func (p *SMTPProvider) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(p.cfg.Port)}
	if p.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(p.cfg.Timeout))
	}
	if p.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.cfg.Username),
			mail.WithPassword(p.cfg.Password),
		)
	}
	switch p.cfg.Encryption {
	case "ssl_tls":
		opts = append(opts, mail.WithSSL())
	case "starttls":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return opts
}

// smtpSubject prefixes contact messages the way staff filter them in their inbox.
func smtpSubject(req domain.NotificationRequest) string {
	if req.Kind == domain.KindContact {
		return "New Contact Form Submission: " + req.Subject
	}
	return req.Subject
}

func plainBody(req domain.NotificationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New message from %s\n", req.SenderName)
	fmt.Fprintf(&b, "From: %s\n", req.SenderEmail)
	if req.SenderPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.SenderPhone)
	}
	fmt.Fprintf(&b, "Subject: %s\n\n", req.Subject)
	b.WriteString(req.Body)
	return b.String()
}

func mailDomain(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 {
		return strings.Trim(addr[i+1:], "> ")
	}
	return "localhost"
}

// emailTmpl wraps an inquiry in minimal HTML. Every field is auto-escaped.
var emailTmpl = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body style="font-family:Arial,sans-serif;color:#111827;">
  <h2>New message from {{.SenderName}}</h2>
  <p><strong>From:</strong> {{.SenderEmail}}</p>
  {{- if .SenderPhone}}
  <p><strong>Phone:</strong> {{.SenderPhone}}</p>
  {{- end}}
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Message:</strong></p>
  <p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
</body>
</html>`))

func renderHTML(req domain.NotificationRequest) (string, error) {
	data := struct {
		domain.NotificationRequest
		Lines []string
	}{
		NotificationRequest: req,
		Lines:               strings.Split(req.Body, "\n"),
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email html: %w", err)
	}
	return buf.String(), nil
}

// compile-time check that SMTPProvider implements Provider
var _ Provider = (*SMTPProvider)(nil)
