package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPQuerierSendsMethodAndParams(t *testing.T) {
	var got queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result": 3}`))
	}))
	defer srv.Close()

	q := NewHTTPQuerier(srv.URL+"/", "secret")
	raw, err := q.Query(context.Background(), MethodSetRoundsPerMap, 3)

	require.NoError(t, err)
	assert.JSONEq(t, "3", string(raw))
	assert.Equal(t, MethodSetRoundsPerMap, got.Method)
	assert.Equal(t, []any{float64(3)}, got.Params)
}

func TestHTTPQuerierFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": -1000, "message": "Not in warmup"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPQuerier(srv.URL, "").Query(context.Background(), MethodStopWarmUp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not in warmup")
}

func TestHTTPQuerierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPQuerier(srv.URL, "").Query(context.Background(), MethodGetWarmUp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestAudience(t *testing.T) {
	assert.True(t, Everyone().Includes("anyone"))
	assert.True(t, To("alice", "bob").Includes("bob"))
	assert.False(t, To("alice").Includes("bob"))
}
