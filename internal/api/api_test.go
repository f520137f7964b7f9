package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/knockout/internal/api"
	"github.com/mcoot/knockout/internal/api/apierr"
	"github.com/mcoot/knockout/internal/api/request"
	"github.com/mcoot/knockout/internal/api/response"
	"github.com/mcoot/knockout/internal/factory"
	"github.com/mcoot/knockout/internal/services/auth"
	"github.com/mcoot/knockout/internal/testutil"
)

const bridgeToken = "relay-secret"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	app.Start(testContext(t))
	t.Cleanup(func() { _ = app.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(bridgeToken), bcrypt.MinCost)
	require.NoError(t, err)
	authService, err := auth.New(string(hash), app.Clock, auth.DefaultConfig())
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: authService,
		Knockout:    app.Loop,
		Storage:     app.Storage,
		Hub:         app.Hub,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) callback(t *testing.T, cb request.CallbackRequest) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/callbacks", cb, bridgeToken)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
}

func (ts *testServer) adminSays(t *testing.T, text string) {
	t.Helper()
	ts.callback(t, request.CallbackRequest{Type: "player_chat", Login: factory.TestAdmin, Text: text})
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCallbackAuth(t *testing.T) {
	ts := newTestServer(t)
	cb := request.CallbackRequest{Type: "begin_round"}

	t.Run("missing token", func(t *testing.T) {
		rr := ts.request(http.MethodPost, "/api/v1/callbacks", cb, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, apierr.CodeUnauthorized, decode[apierr.ErrorResponse](t, rr).Error.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		rr := ts.request(http.MethodPost, "/api/v1/callbacks", cb, "not-the-token")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rr := ts.request(http.MethodPost, "/api/v1/callbacks", cb, bridgeToken)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestCallbackValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		wantCode string
		status   int
	}{
		{"not json", "nope", apierr.CodeInvalidRequest, http.StatusBadRequest},
		{"missing type", request.CallbackRequest{}, apierr.CodeInvalidRequest, http.StatusBadRequest},
		{"status out of range", request.CallbackRequest{Type: "status_changed", Status: 9}, apierr.CodeInvalidRequest, http.StatusBadRequest},
		{"finish without login", request.CallbackRequest{Type: "player_finish", Time: 1000}, apierr.CodeInvalidRequest, http.StatusBadRequest},
		{"unknown type", request.CallbackRequest{Type: "player_teleport"}, apierr.CodeUnknownCallback, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/callbacks", tt.body, bridgeToken)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.wantCode, decode[apierr.ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestGetKnockoutIdle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/knockout", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	state := decode[response.KnockoutState](t, rr)
	assert.Equal(t, "Idle", state.Status)
	assert.Empty(t, state.Players)
	assert.Equal(t, 1, state.Settings.DefaultLives)
}

func TestKnockoutFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockIDs.IDs = []string{"ko-1"}
	ts.app.MockServer.AddPlayer("racer01", "Racer 1", false)
	ts.app.MockServer.AddPlayer("racer02", "Racer 2", false)

	ts.adminSays(t, "/ko multi 1")
	ts.adminSays(t, "/ko start now")
	ts.callback(t, request.CallbackRequest{Type: "begin_match"})

	rr := ts.request(http.MethodGet, "/api/v1/knockout", nil, "")
	state := decode[response.KnockoutState](t, rr)
	assert.Equal(t, "StartingNow", state.Status)
	assert.Len(t, state.Players, 2)

	// One round decides a two player knockout
	ts.callback(t, request.CallbackRequest{Type: "status_changed", Status: 3})
	state = decode[response.KnockoutState](t, ts.request(http.MethodGet, "/api/v1/knockout", nil, ""))
	assert.Equal(t, "Running", state.Status)
	ts.callback(t, request.CallbackRequest{Type: "begin_round"})
	ts.callback(t, request.CallbackRequest{Type: "status_changed", Status: 4})
	ts.callback(t, request.CallbackRequest{Type: "player_finish", Login: "racer01", Time: 45000})
	ts.callback(t, request.CallbackRequest{Type: "player_finish", Login: "racer02", Time: 46000})

	rr = ts.request(http.MethodGet, "/api/v1/knockout", nil, "")
	state = decode[response.KnockoutState](t, rr)
	require.Len(t, state.Scores, 2)
	assert.Equal(t, "racer01", state.Scores[0].Login)
	assert.True(t, state.Scores[1].Finished)

	ts.callback(t, request.CallbackRequest{Type: "end_round"})

	// History
	rr = ts.request(http.MethodGet, "/api/v1/knockouts", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.ResultList](t, rr)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "ko-1", list.Results[0].ID)
	assert.Equal(t, "racer01", list.Results[0].Winner)

	rr = ts.request(http.MethodGet, "/api/v1/knockouts/ko-1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	result := decode[response.Result](t, rr)
	assert.Equal(t, 2, result.Players)
	require.Len(t, result.Eliminations, 1)
	assert.Equal(t, "racer02", result.Eliminations[0].Login)

	rr = ts.request(http.MethodGet, "/api/v1/knockouts/ko-9", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeResultNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)

	// Leaderboard
	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=5", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[response.Leaderboard](t, rr)
	assert.Equal(t, []response.LeaderboardEntry{{Login: "racer01", Nickname: "Racer 1", Wins: 1}}, board.Entries)
}

func TestInvalidLimit(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/knockouts?limit=abc", "/api/v1/leaderboard?limit=-1"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestRelayEventsRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/relay/events", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// readEvent reads the stream until an event with the given name arrives and
// returns its data line
func readEvent(t *testing.T, reader *bufio.Reader, name string) string {
	t.Helper()
	found := false
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "event: "+name {
			found = true
			continue
		}
		if found && strings.HasPrefix(line, "data: ") {
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, url, token string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent(t, reader, "connected")
	return reader
}

func TestEventStreams(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	player := openStream(t, srv.URL+"/api/v1/events?login="+factory.TestAdmin, "")
	relay := openStream(t, srv.URL+"/api/v1/relay/events", bridgeToken)

	// A syntax error is reported to the issuer only
	ts.adminSays(t, "/ko lives")

	data := readEvent(t, player, "chat")
	assert.Contains(t, data, `"logins":["admin"]`)

	data = readEvent(t, relay, "chat")
	assert.Contains(t, data, `"logins":["admin"]`)
}

// testContext stands in for t.Context (Go 1.24+): a context cancelled when the test ends.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
