package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/knockout/internal/host"
)

// Event names sent to subscribers
const (
	EventStatus     = "status"
	EventScoreboard = "scoreboard"
	EventDialog     = "dialog"
	EventPrompt     = "prompt"
	EventChat       = "chat"
)

// Presenter shows knockout output to players by publishing JSON events on a Hub
type Presenter struct {
	hub    *Hub
	logger *slog.Logger
}

var _ host.Presenter = (*Presenter)(nil)

// NewPresenter creates a Presenter publishing on hub
func NewPresenter(hub *Hub, logger *slog.Logger) *Presenter {
	return &Presenter{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-presenter")),
	}
}

func (p *Presenter) ShowStatus(_ context.Context, to host.Audience, view host.StatusView) {
	p.publish(to, EventStatus, view)
}

func (p *Presenter) ShowScoreboard(_ context.Context, to host.Audience, view host.ScoreboardView) {
	p.publish(to, EventScoreboard, view)
}

func (p *Presenter) ShowDialog(_ context.Context, to host.Audience, dialog host.Dialog) {
	p.publish(to, EventDialog, dialog)
}

func (p *Presenter) Prompt(_ context.Context, to host.Audience, prompt host.Prompt) {
	p.publish(to, EventPrompt, prompt)
}

// Envelope is the data of every event: who it is for and what to show
type Envelope struct {
	To   host.Audience `json:"to"`
	Data any           `json:"data"`
}

// ChatMessage is the payload of a chat event
type ChatMessage struct {
	Message string `json:"message"`
}

func (p *Presenter) Chat(_ context.Context, to host.Audience, text string) {
	p.publish(to, EventChat, ChatMessage{Message: text})
}

func (p *Presenter) publish(to host.Audience, event string, payload any) {
	data, err := json.Marshal(Envelope{To: to, Data: payload})
	if err != nil {
		p.logger.Error("sse failed to encode event",
			slog.String("event", event),
			slog.Any("error", err))
		return
	}
	p.hub.Publish(to, event, string(data))
}
