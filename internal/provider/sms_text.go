package provider

import (
	"fmt"
	"strings"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

const (
	// SMSLimit is the length of a single SMS segment.
	SMSLimit = 160
	// smsFragment is the budget given to each of subject and body.
	smsFragment = 50
	ellipsis    = "..."
)

// ComposeSMS renders a request into one SMS segment:
//
//	New msg from <name>:
//	<subject, at most 50 runes>
//	<body, at most 50 runes>
//
// Whitespace inside subject and body collapses to single spaces so a multi-line
// booking summary still reads on a phone. The result never exceeds SMSLimit runes.
func ComposeSMS(req domain.NotificationRequest) string {
	text := fmt.Sprintf("New msg from %s:\n%s\n%s",
		req.SenderName,
		fragment(req.Subject, smsFragment),
		fragment(req.Body, smsFragment),
	)
	return clamp(text, SMSLimit)
}

// fragment cuts s to n runes and marks the cut with an ellipsis.
func fragment(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}

// clamp keeps s within n runes, ellipsis included.
func clamp(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-len(ellipsis)]) + ellipsis
}
