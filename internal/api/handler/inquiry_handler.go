package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/otharalodge/inquiry-relay/internal/api/middleware"
	"github.com/otharalodge/inquiry-relay/internal/domain"
	"github.com/otharalodge/inquiry-relay/internal/service"
)

// User-facing messages shown by the site after a submission.
const (
	MsgBookingSent   = "Booking request sent successfully!"
	MsgBookingFailed = "Failed to send booking request. Please try again."
	MsgContactSent   = "Message sent successfully!"
	MsgContactFailed = "Failed to send message. Please try again."
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// InquiryResponse is the body returned for a dispatched inquiry.
// Status collapses the outcome to what the site renders; Results keep the
// per-channel detail for operators.
type InquiryResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Outcome domain.OverallOutcome  `json:"outcome"`
	Results []domain.ChannelResult `json:"results"`
}

// InquiryHandler handles the booking and contact submission endpoints.
type InquiryHandler struct {
	svc    *service.InquiryService
	logger *zap.Logger
}

func NewInquiryHandler(svc *service.InquiryService, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{svc: svc, logger: logger}
}

// Booking handles POST /api/v1/inquiries/booking
//
// @Summary     Submit a booking inquiry
// @Tags        inquiries
// @Accept      json
// @Produce     json
// @Param       X-Idempotency-Key  header    string              false  "Idempotency key"
// @Param       body               body      domain.BookingForm  true   "Booking form"
// @Success     200                {object}  InquiryResponse
// @Failure     400                {object}  map[string]string
// @Failure     422                {object}  map[string]string
// @Failure     502                {object}  InquiryResponse     "One or more channels failed"
// @Router      /api/v1/inquiries/booking [post]
func (h *InquiryHandler) Booking(w http.ResponseWriter, r *http.Request) {
	var form domain.BookingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.handle(w, r, MsgBookingSent, MsgBookingFailed, func(ctx context.Context, key string) (domain.DispatchResult, bool, error) {
		return h.svc.SubmitBooking(ctx, form, key)
	})
}

// Contact handles POST /api/v1/inquiries/contact
//
// @Summary     Submit a contact message
// @Tags        inquiries
// @Accept      json
// @Produce     json
// @Param       X-Idempotency-Key  header    string              false  "Idempotency key"
// @Param       body               body      domain.ContactForm  true   "Contact form"
// @Success     200                {object}  InquiryResponse
// @Failure     400                {object}  map[string]string
// @Failure     422                {object}  map[string]string
// @Failure     502                {object}  InquiryResponse     "One or more channels failed"
// @Router      /api/v1/inquiries/contact [post]
func (h *InquiryHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var form domain.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.handle(w, r, MsgContactSent, MsgContactFailed, func(ctx context.Context, key string) (domain.DispatchResult, bool, error) {
		return h.svc.SubmitContact(ctx, form, key)
	})
}

type submitFunc func(ctx context.Context, idempotencyKey string) (domain.DispatchResult, bool, error)

func (h *InquiryHandler) handle(w http.ResponseWriter, r *http.Request, okMsg, failMsg string, submit submitFunc) {
	res, isDuplicate, err := submit(r.Context(), r.Header.Get("X-Idempotency-Key"))
	if err != nil {
		h.logger.Warn("inquiry rejected",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	if isDuplicate {
		w.Header().Set("X-Idempotent-Replay", "true")
	}

	if res.Succeeded() {
		respondJSON(w, http.StatusOK, InquiryResponse{
			Status:  statusSuccess,
			Message: okMsg,
			Outcome: res.Overall,
			Results: res.Results,
		})
		return
	}

	h.logger.Warn("inquiry not fully delivered",
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
		zap.String("outcome", string(res.Overall)),
	)
	respondJSON(w, http.StatusBadGateway, InquiryResponse{
		Status:  statusFailed,
		Message: failMsg,
		Outcome: res.Overall,
		Results: res.Results,
	})
}
