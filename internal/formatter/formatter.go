// Package formatter turns raw guest form fields into a validated
// domain.NotificationRequest. It performs no I/O.
package formatter

import (
	"fmt"
	"strings"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// DefaultDateLayout renders dates the way an en-US browser does (6/1/2024).
const DefaultDateLayout = "1/2/2006"

// Formatter composes notification subjects and bodies.
type Formatter struct {
	dateLayout string
}

func New(dateLayout string) *Formatter {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Formatter{dateLayout: dateLayout}
}

// FormatContact builds the request for a contact-page message.
func (f *Formatter) FormatContact(form domain.ContactForm) (domain.NotificationRequest, error) {
	req := domain.NotificationRequest{
		Kind:        domain.KindContact,
		SenderName:  form.Name,
		SenderEmail: form.Email,
		SenderPhone: form.Phone,
		Subject:     form.Subject,
		Body:        form.Message,
	}.Trimmed()

	if err := req.Validate(); err != nil {
		return domain.NotificationRequest{}, err
	}
	return req, nil
}

// FormatBooking builds the request for a booking inquiry. Request fields are
// validated first, then the stay itself (room, guests, dates).
func (f *Formatter) FormatBooking(form domain.BookingForm) (domain.NotificationRequest, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.RoomType = strings.TrimSpace(form.RoomType)
	form.SpecialRequests = strings.TrimSpace(form.SpecialRequests)

	room, roomErr := domain.LookupRoom(form.RoomType)

	req := domain.NotificationRequest{
		Kind:        domain.KindBooking,
		SenderName:  form.Name,
		SenderEmail: form.Email,
		SenderPhone: form.Phone,
		Subject:     "New Booking Request from " + form.Name,
		Body:        f.bookingBody(form, room),
	}
	if err := req.Validate(); err != nil {
		return domain.NotificationRequest{}, err
	}

	if roomErr != nil {
		return domain.NotificationRequest{}, domain.NewValidationError("roomType", fmt.Sprintf("%q is not a room we offer", form.RoomType))
	}
	if form.Guests < 1 || form.Guests > room.MaxGuests {
		return domain.NotificationRequest{}, domain.NewValidationError("guests", fmt.Sprintf("must be between 1 and %d", room.MaxGuests))
	}
	if form.CheckIn.IsZero() {
		return domain.NotificationRequest{}, domain.NewValidationError("checkIn", "must not be empty")
	}
	if form.CheckOut.IsZero() {
		return domain.NotificationRequest{}, domain.NewValidationError("checkOut", "must not be empty")
	}
	if !form.CheckOut.After(form.CheckIn.Time) {
		return domain.NotificationRequest{}, domain.NewValidationError("checkOut", "must be after check-in")
	}

	return req, nil
}

func (f *Formatter) bookingBody(form domain.BookingForm, room domain.Room) string {
	phone := form.Phone
	if phone == "" {
		phone = "Not provided"
	}
	special := form.SpecialRequests
	if special == "" {
		special = "None"
	}

	var b strings.Builder
	b.WriteString("Booking Details:\n")
	fmt.Fprintf(&b, "Check-in: %s\n", form.CheckIn.Format(f.dateLayout))
	fmt.Fprintf(&b, "Check-out: %s\n", form.CheckOut.Format(f.dateLayout))
	fmt.Fprintf(&b, "Room: %s (%s/night)\n", room.Name, room.Price)
	fmt.Fprintf(&b, "Guests: %d\n", form.Guests)
	b.WriteString("Guest Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", form.Name)
	fmt.Fprintf(&b, "- Email: %s\n", form.Email)
	fmt.Fprintf(&b, "- Phone: %s\n", phone)
	fmt.Fprintf(&b, "Special Requests: %s", special)
	return b.String()
}
