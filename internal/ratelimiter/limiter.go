package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// ChannelLimiters paces outbound provider calls with one token bucket per
// channel, so a burst of inquiries cannot exhaust a provider's quota.
// Burst equals the rate: no saved-up capacity beyond the per-second maximum.
type ChannelLimiters struct {
	limiters map[domain.Channel]*rate.Limiter
}

// New creates ChannelLimiters with ratePerSec tokens per second per channel.
// A non-positive rate returns nil, which disables pacing.
func New(ratePerSec int) *ChannelLimiters {
	if ratePerSec <= 0 {
		return nil
	}
	r := rate.Limit(ratePerSec)

	return &ChannelLimiters{
		limiters: map[domain.Channel]*rate.Limiter{
			domain.ChannelEmail: rate.NewLimiter(r, ratePerSec),
			domain.ChannelSMS:   rate.NewLimiter(r, ratePerSec),
		},
	}
}

// Wait blocks until the channel's limiter grants a token.
// Returns a non-nil error only if ctx is done first (or its deadline
// cannot be met). A nil receiver or unknown channel never blocks.
func (cl *ChannelLimiters) Wait(ctx context.Context, ch domain.Channel) error {
	if cl == nil {
		return nil
	}
	l, ok := cl.limiters[ch]
	if !ok {
		return nil
	}
	return l.Wait(ctx)
}
