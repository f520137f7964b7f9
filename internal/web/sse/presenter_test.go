package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/testutil"
)

func TestPresenter_EncodesEvents(t *testing.T) {
	hub := startHub(t)
	clients := register(t, hub, "alice", "bob")
	p := NewPresenter(hub, testutil.NopLogger())
	ctx := context.Background()

	p.ShowStatus(ctx, host.Everyone(), host.StatusView{State: "Running", Round: 3, PlayersLeft: 5, Eliminations: 1, Mode: "None"})
	p.Chat(ctx, host.To("bob"), "You are out")
	p.Prompt(ctx, host.To("alice"), host.Prompt{ID: "p1", Question: "Stop the knockout?"})

	status := `{"to":{"all":true},"data":{"state":"Running","round":3,"players_left":5,"eliminations":1,"mode":"None"}}`
	expectMessage(t, clients[0], "event: status\ndata: "+status+"\n\n")
	expectMessage(t, clients[1], "event: status\ndata: "+status+"\n\n")
	expectMessage(t, clients[1], "event: chat\ndata: "+`{"to":{"all":false,"logins":["bob"]},"data":{"message":"You are out"}}`+"\n\n")
	expectMessage(t, clients[0], "event: prompt\ndata: "+`{"to":{"all":false,"logins":["alice"]},"data":{"id":"p1","question":"Stop the knockout?"}}`+"\n\n")
	expectNothing(t, clients[0])
	expectNothing(t, clients[1])
}

func TestPresenter_RelaySeesEverything(t *testing.T) {
	hub := startHub(t)
	relay := NewRelayClient()
	hub.Register(relay)
	time.Sleep(10 * time.Millisecond)
	p := NewPresenter(hub, testutil.NopLogger())

	p.Chat(context.Background(), host.To("bob"), "psst")
	p.ShowDialog(context.Background(), host.To("alice"), host.Dialog{Title: "Help", Pages: []string{"one"}})

	expectMessage(t, relay, "event: chat\ndata: "+`{"to":{"all":false,"logins":["bob"]},"data":{"message":"psst"}}`+"\n\n")
	expectMessage(t, relay, "event: dialog\ndata: "+`{"to":{"all":false,"logins":["alice"]},"data":{"title":"Help","pages":["one"]}}`+"\n\n")
}

func TestServeSSE_StreamsEvents(t *testing.T) {
	hub := startHub(t)
	p := NewPresenter(hub, testutil.NopLogger())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub, NewClient(r.URL.Query().Get("login")))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?login=alice", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	p.Chat(context.Background(), host.To("alice"), "welcome")

	var got []string
	for len(got) < 3 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.TrimSpace(line) != "" {
			got = append(got, strings.TrimSpace(line))
		}
	}
	assert.Equal(t, []string{
		`data: {"status":"connected"}`,
		"event: chat",
		`data: {"to":{"all":false,"logins":["alice"]},"data":{"message":"welcome"}}`,
	}, got)
}
