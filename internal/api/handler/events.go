package handler

import (
	"net/http"

	"github.com/mcoot/knockout/internal/web/sse"
)

// EventsHandler streams knockout output over SSE
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events?login=
// Without a login only events addressed to everyone are sent.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub, sse.NewClient(r.URL.Query().Get("login")))
}

// Relay handles GET /api/v1/relay/events, streaming every event to the host relay
func (h *EventsHandler) Relay(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub, sse.NewRelayClient())
}
