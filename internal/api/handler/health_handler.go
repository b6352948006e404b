package handler

import (
	"net/http"

	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// channelLister reports the dispatch channels in use.
type channelLister interface {
	Channels() []domain.Channel
}

// HealthHandler serves the liveness probe endpoint.
type HealthHandler struct {
	channels channelLister
}

func NewHealthHandler(channels channelLister) *HealthHandler {
	return &HealthHandler{channels: channels}
}

// Health handles GET /health
//
// @Summary  Liveness probe with the configured channels
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"channels": h.channels.Channels(),
	})
}
