package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/knockout/internal/host"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize  = 64
	relayBufferSize = 1024
)

// Client is one connected event stream
type Client struct {
	login       string
	relay       bool
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client for login; an empty login is an observer
func NewClient(login string) *Client {
	return &Client{
		login:       login,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// NewRelayClient creates a client for the host relay, which receives every
// event and delivers it in game
func NewRelayClient() *Client {
	c := NewClient("")
	c.relay = true
	c.send = make(chan []byte, relayBufferSize)
	return c
}

func (c *Client) wants(to host.Audience) bool {
	return c.relay || to.Includes(c.login)
}

// ServeSSE streams hub events to the client until it disconnects or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, client *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
