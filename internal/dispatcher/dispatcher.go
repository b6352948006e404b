package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/otharalodge/inquiry-relay/internal/domain"
	"github.com/otharalodge/inquiry-relay/internal/provider"
	"github.com/otharalodge/inquiry-relay/internal/ratelimiter"
)

// TimeoutDetail is the ChannelResult detail for a call that did not resolve in time.
const TimeoutDetail = "timeout"

// MetricHooks carries the metric callback functions injected by main.
// Any nil hook is a no-op.
type MetricHooks struct {
	OnDelivered func(channel domain.Channel, latency time.Duration)
	OnFailed    func(channel domain.Channel)
	OnDispatch  func(outcome domain.OverallOutcome)
}

// Dispatcher sends one NotificationRequest through every configured channel
// concurrently and joins all outcomes into a DispatchResult. It holds no
// per-submission state, so concurrent dispatches never interact.
type Dispatcher struct {
	providers []provider.Provider
	limiter   *ratelimiter.ChannelLimiters
	timeout   time.Duration
	logger    *zap.Logger
	hooks     MetricHooks
}

// NewDispatcher validates the channel set. Providers are used in the given
// order, which is also the order of DispatchResult.Results. At least one
// email provider is required. limiter may be nil; timeout <= 0 disables the
// per-channel deadline.
func NewDispatcher(
	providers []provider.Provider,
	limiter *ratelimiter.ChannelLimiters,
	timeout time.Duration,
	logger *zap.Logger,
	hooks MetricHooks,
) (*Dispatcher, error) {
	if len(providers) == 0 {
		return nil, domain.ErrNoChannels
	}
	hasEmail := false
	for _, p := range providers {
		if p.Channel() == domain.ChannelEmail {
			hasEmail = true
		}
	}
	if !hasEmail {
		return nil, domain.ErrEmailChannelRequired
	}

	if hooks.OnDelivered == nil {
		hooks.OnDelivered = func(domain.Channel, time.Duration) {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func(domain.Channel) {}
	}
	if hooks.OnDispatch == nil {
		hooks.OnDispatch = func(domain.OverallOutcome) {}
	}

	return &Dispatcher{
		providers: append([]provider.Provider(nil), providers...),
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
		hooks:     hooks,
	}, nil
}

// Channels reports the configured channels in dispatch order.
func (d *Dispatcher) Channels() []domain.Channel {
	out := make([]domain.Channel, len(d.providers))
	for i, p := range d.providers {
		out[i] = p.Channel()
	}
	return out
}

// Dispatch starts every channel send without waiting on the others and
// returns once each has a terminal outcome. It never fails: provider errors,
// panics and timeouts become Failed results for that channel only.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.NotificationRequest) domain.DispatchResult {
	results := make([]domain.ChannelResult, len(d.providers))

	// Plain Group: no derived context, so one failure never cancels siblings.
	var g errgroup.Group
	for i, p := range d.providers {
		g.Go(func() error {
			results[i] = d.send(ctx, p, req)
			return nil
		})
	}
	_ = g.Wait()

	res := domain.NewDispatchResult(results)
	d.hooks.OnDispatch(res.Overall)
	return res
}

type outcome struct {
	resp *provider.SendResponse
	err  error
}

func (d *Dispatcher) send(ctx context.Context, p provider.Provider, req domain.NotificationRequest) domain.ChannelResult {
	ch := p.Channel()
	log := d.logger.With(
		zap.String("channel", string(ch)),
		zap.String("provider", p.Name()),
	)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.limiter.Wait(ctx, ch); err != nil {
		return d.fail(log, ch, waitDetail(ctx, err))
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		resp, err := p.Send(ctx, req)
		done <- outcome{resp: resp, err: err}
	}()

	// A provider that ignores its context still cannot hold the slot past the deadline.
	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o = outcome{err: ctx.Err()}
	}

	if o.err != nil {
		return d.fail(log, ch, errorDetail(o.err))
	}

	elapsed := time.Since(start)
	detail := "accepted"
	if o.resp != nil && o.resp.MessageID != "" {
		detail = o.resp.MessageID
	}
	d.hooks.OnDelivered(ch, elapsed)
	log.Info("channel delivered", zap.String("detail", detail), zap.Duration("latency", elapsed))
	return domain.Delivered(ch, detail)
}

func (d *Dispatcher) fail(log *zap.Logger, ch domain.Channel, detail string) domain.ChannelResult {
	d.hooks.OnFailed(ch)
	log.Warn("channel failed", zap.String("detail", detail))
	return domain.Failed(ch, detail)
}

func errorDetail(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutDetail
	}
	return err.Error()
}

// waitDetail reports a limiter that could not grant a token before the deadline
// as a timeout too.
func waitDetail(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimeoutDetail
	}
	if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
		return TimeoutDetail
	}
	return "rate limiter: " + err.Error()
}
