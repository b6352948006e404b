package handler

import (
	"net/http"

	"github.com/otharalodge/inquiry-relay/internal/service"
)

// RoomsHandler serves the room catalog the booking form offers.
type RoomsHandler struct {
	svc *service.InquiryService
}

func NewRoomsHandler(svc *service.InquiryService) *RoomsHandler {
	return &RoomsHandler{svc: svc}
}

// List handles GET /api/v1/rooms
//
// @Summary  List bookable rooms
// @Tags     rooms
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/rooms [get]
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"data": h.svc.Rooms()})
}
