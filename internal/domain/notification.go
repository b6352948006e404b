package domain

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Channel is one outbound notification transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

// InquiryKind tags which guest flow produced a request.
type InquiryKind string

const (
	KindBooking InquiryKind = "booking"
	KindContact InquiryKind = "contact"
)

// NotificationRequest is the formatted payload handed to every channel.
// It is passed by value so a sender can never mutate what its siblings read.
type NotificationRequest struct {
	Kind        InquiryKind `json:"kind"`
	SenderName  string      `json:"senderName" validate:"required"`
	SenderEmail string      `json:"senderEmail" validate:"required,email"`
	SenderPhone string      `json:"senderPhone,omitempty"`
	Subject     string      `json:"subject" validate:"required"`
	Body        string      `json:"body" validate:"required"`
}

// Outcome is the terminal state of one channel attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
)

// ChannelResult is the outcome of sending through one channel.
// Detail carries the provider identifier on success or the error text on failure.
type ChannelResult struct {
	Channel Channel `json:"channel"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail"`
}

func Delivered(ch Channel, detail string) ChannelResult {
	return ChannelResult{Channel: ch, Outcome: OutcomeDelivered, Detail: detail}
}

func Failed(ch Channel, detail string) ChannelResult {
	return ChannelResult{Channel: ch, Outcome: OutcomeFailed, Detail: detail}
}

// OverallOutcome reduces every channel result of one dispatch.
type OverallOutcome string

const (
	AllSucceeded   OverallOutcome = "all_succeeded"
	PartialFailure OverallOutcome = "partial_failure"
	AllFailed      OverallOutcome = "all_failed"
)

// DispatchState is the per-submission state machine:
//
//	Idle → Dispatching → {AllSucceeded | PartialFailure | AllFailed}
//
// Only Dispatching and the terminal outcomes are externally observable.
type DispatchState string

const (
	StateIdle        DispatchState = "idle"
	StateDispatching DispatchState = "dispatching"
)

// Terminal maps an overall outcome to its terminal state.
func (o OverallOutcome) Terminal() DispatchState { return DispatchState(o) }

// DispatchResult aggregates all channel attempts for one request.
// Results are in channel configuration order, not completion order.
type DispatchResult struct {
	Results []ChannelResult `json:"results"`
	Overall OverallOutcome  `json:"outcome"`
}

// NewDispatchResult computes the overall outcome for results.
func NewDispatchResult(results []ChannelResult) DispatchResult {
	return DispatchResult{Results: results, Overall: Aggregate(results)}
}

// Aggregate returns AllSucceeded iff every result was delivered, AllFailed iff
// every result failed, and PartialFailure otherwise. No results counts as AllFailed.
func Aggregate(results []ChannelResult) OverallOutcome {
	delivered := 0
	for _, r := range results {
		if r.Outcome == OutcomeDelivered {
			delivered++
		}
	}
	switch {
	case len(results) > 0 && delivered == len(results):
		return AllSucceeded
	case delivered == 0:
		return AllFailed
	default:
		return PartialFailure
	}
}

// Succeeded is the collapsed success/failure view the site renders.
func (r DispatchResult) Succeeded() bool { return r.Overall == AllSucceeded }

// Err joins the details of every failed channel, or returns nil.
func (r DispatchResult) Err() error {
	var merr *multierror.Error
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s", res.Channel, res.Detail))
		}
	}
	return merr.ErrorOrNil()
}
