package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/knockout/internal/host"
)

// message is an encoded event and the players it is meant for
type message struct {
	audience host.Audience
	data     []byte
}

// Hub fans knockout events out to connected SSE clients. Player clients
// subscribe with a login; observers without one only receive events sent to
// everyone. Relay clients receive everything.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	publish    chan message
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub. Run must be started before clients register.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "sse")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("login", client.login),
				slog.Bool("relay", client.relay),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("login", client.login),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.publish:
			h.deliver(msg)

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for client := range h.clients {
		if !client.wants(msg.audience) {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			dropped++
			h.logger.Warn("sse message dropped - client buffer full",
				slog.String("login", client.login))
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse publish partial failure", slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish sends an event to every client in the audience without blocking
func (h *Hub) Publish(to host.Audience, event, data string) {
	select {
	case h.publish <- message{audience: to, data: formatSSEMessage(event, data)}:
	default:
		h.logger.Warn("sse publish dropped - hub buffer full", slog.String("event", event))
	}
}

// Close shuts down the hub and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE event, prefixing every line of data with "data: "
func formatSSEMessage(event, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + event + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
