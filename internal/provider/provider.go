package provider

import (
	"context"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// SendResponse carries the provider's acknowledgement of one send.
type SendResponse struct {
	MessageID string `json:"messageId"`
}

// Provider abstracts delivery through one external notification service.
// Send performs exactly one outbound call and reports every failure as a
// *domain.ChannelTransportError. Mocking this interface in tests gives full
// control over provider behaviour without making real network calls.
type Provider interface {
	Channel() domain.Channel
	Name() string
	Send(ctx context.Context, req domain.NotificationRequest) (*SendResponse, error)
}
