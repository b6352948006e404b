package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/otharalodge/inquiry-relay/internal/dispatcher"
	"github.com/otharalodge/inquiry-relay/internal/domain"
	"github.com/otharalodge/inquiry-relay/internal/formatter"
)

// DefaultReplayTTL is how long a dispatched result stays replayable under its
// idempotency key.
const DefaultReplayTTL = 10 * time.Minute

// InquiryService is the submit boundary used by HTTP handlers and the CLI.
// Formatting and validation happen before any provider is contacted.
type InquiryService struct {
	formatter  *formatter.Formatter
	dispatcher *dispatcher.Dispatcher
	replay     *cache.Cache
	inflight   singleflight.Group
	logger     *zap.Logger
}

func NewInquiryService(
	f *formatter.Formatter,
	d *dispatcher.Dispatcher,
	replayTTL time.Duration,
	logger *zap.Logger,
) *InquiryService {
	if replayTTL <= 0 {
		replayTTL = DefaultReplayTTL
	}
	return &InquiryService{
		formatter:  f,
		dispatcher: d,
		replay:     cache.New(replayTTL, 2*replayTTL),
		logger:     logger,
	}
}

// SubmitBooking formats a booking form and dispatches it to every channel.
// The returned error is always a *domain.ValidationError; delivery problems
// are reported inside the DispatchResult.
func (s *InquiryService) SubmitBooking(
	ctx context.Context,
	form domain.BookingForm,
	idempotencyKey string,
) (domain.DispatchResult, bool, error) {
	req, err := s.formatter.FormatBooking(form)
	if err != nil {
		return domain.DispatchResult{}, false, err
	}
	return s.submit(ctx, req, idempotencyKey)
}

// SubmitContact formats a contact message and dispatches it to every channel.
func (s *InquiryService) SubmitContact(
	ctx context.Context,
	form domain.ContactForm,
	idempotencyKey string,
) (domain.DispatchResult, bool, error) {
	req, err := s.formatter.FormatContact(form)
	if err != nil {
		return domain.DispatchResult{}, false, err
	}
	return s.submit(ctx, req, idempotencyKey)
}

// Channels reports the dispatch channels in order.
func (s *InquiryService) Channels() []domain.Channel {
	return s.dispatcher.Channels()
}

// Rooms returns the room catalog.
func (s *InquiryService) Rooms() []domain.Room {
	return append([]domain.Room(nil), domain.Rooms...)
}

// submit dispatches req, honouring the idempotency key when one is given.
//
// A result is kept for replay only if at least one channel delivered it, so
// a client retrying an all-failed submission with the same key really retries.
// Concurrent requests sharing a key are collapsed into a single dispatch.
func (s *InquiryService) submit(
	ctx context.Context,
	req domain.NotificationRequest,
	idempotencyKey string,
) (domain.DispatchResult, bool, error) {
	if idempotencyKey == "" {
		return s.dispatch(ctx, req), false, nil
	}

	key := string(req.Kind) + ":" + idempotencyKey
	if cached, ok := s.replay.Get(key); ok {
		s.logger.Info("idempotent replay",
			zap.String("kind", string(req.Kind)),
			zap.String("idempotency_key", idempotencyKey),
		)
		return cached.(domain.DispatchResult), true, nil
	}

	ran := false
	v, _, _ := s.inflight.Do(key, func() (any, error) {
		ran = true
		res := s.dispatch(ctx, req)
		if res.Overall != domain.AllFailed {
			s.replay.SetDefault(key, res)
		}
		return res, nil
	})
	return v.(domain.DispatchResult), !ran, nil
}

func (s *InquiryService) dispatch(ctx context.Context, req domain.NotificationRequest) domain.DispatchResult {
	res := s.dispatcher.Dispatch(ctx, req)

	fields := []zap.Field{
		zap.String("kind", string(req.Kind)),
		zap.String("sender_email", req.SenderEmail),
		zap.String("outcome", string(res.Overall)),
	}
	for _, r := range res.Results {
		fields = append(fields, zap.String(string(r.Channel), string(r.Outcome)+": "+r.Detail))
	}

	if err := res.Err(); err != nil {
		s.logger.Warn("inquiry dispatched with failures", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("inquiry dispatched", fields...)
	}
	return res
}
