package handler

import (
	"net/http"

	"github.com/mcoot/vstetris/internal/api/response"
	"github.com/mcoot/vstetris/internal/relay"
)

// RelayHandler exposes the websocket relay and its stats
type RelayHandler struct {
	hub *relay.Hub
}

// NewRelayHandler creates a new relay handler
func NewRelayHandler(hub *relay.Hub) *RelayHandler {
	return &RelayHandler{hub: hub}
}

// Stats handles GET /api/v1/stats
func (h *RelayHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.hub.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Connect handles GET /ws by upgrading to a websocket
func (h *RelayHandler) Connect(w http.ResponseWriter, r *http.Request) {
	relay.ServeWS(w, r, h.hub)
}
