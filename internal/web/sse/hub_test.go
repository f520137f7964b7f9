package sse

import (
	"testing"
	"time"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{
			name:     "single line data",
			event:    "chat",
			data:     `{"message":"hi"}`,
			expected: "event: chat\ndata: {\"message\":\"hi\"}\n\n",
		},
		{
			name:     "multi-line data",
			event:    "dialog",
			data:     "page one\npage two",
			expected: "event: dialog\ndata: page one\ndata: page two\n\n",
		},
		{
			name:     "empty data",
			event:    "ping",
			data:     "",
			expected: "event: ping\ndata: \n\n",
		},
		{
			name:     "crlf line endings",
			event:    "test",
			data:     "line1\r\nline2\r\n",
			expected: "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.event, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.event, tt.data, string(result), tt.expected)
			}
		})
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func register(t *testing.T, hub *Hub, logins ...string) []*Client {
	t.Helper()
	clients := make([]*Client, len(logins))
	for i, login := range logins {
		clients[i] = NewClient(login)
		hub.Register(clients[i])
	}
	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)
	return clients
}

func expectMessage(t *testing.T, c *Client, expected string) {
	t.Helper()
	select {
	case msg := <-c.send:
		if string(msg) != expected {
			t.Errorf("client %q received %q, want %q", c.login, string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Errorf("client %q did not receive message", c.login)
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Errorf("client %q unexpectedly received %q", c.login, string(msg))
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_PublishToEveryone(t *testing.T) {
	hub := startHub(t)
	clients := register(t, hub, "alice", "bob", "")

	if hub.ClientCount() != 3 {
		t.Errorf("ClientCount() = %d, want 3", hub.ClientCount())
	}

	hub.Publish(host.Everyone(), "chat", "hello")

	for _, c := range clients {
		expectMessage(t, c, "event: chat\ndata: hello\n\n")
	}
}

func TestHub_PublishToLogins(t *testing.T) {
	hub := startHub(t)
	clients := register(t, hub, "alice", "bob", "")

	hub.Publish(host.To("bob"), "prompt", "stop?")

	expectMessage(t, clients[1], "event: prompt\ndata: stop?\n\n")
	expectNothing(t, clients[0])
	expectNothing(t, clients[2])
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	clients := register(t, hub, "alice")

	hub.Unregister(clients[0])
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
	if _, ok := <-clients[0].send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	clients := register(t, hub, "alice")

	hub.Close()
	select {
	case _, ok := <-clients[0].send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client was not disconnected")
	}

	// Registering after close must not block
	late := NewClient("bob")
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Error("late client channel should be closed")
	}
	hub.Unregister(late)
	hub.Close()
}
