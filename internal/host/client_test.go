package host

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/testutil"
)

type recordedQuery struct {
	method string
	params []any
}

type fakeQuerier struct {
	results map[string]string
	failing map[string]bool
	calls   []recordedQuery
}

func (f *fakeQuerier) Query(_ context.Context, method string, params ...any) (json.RawMessage, error) {
	f.calls = append(f.calls, recordedQuery{method: method, params: params})
	if f.failing[method] {
		return nil, errors.New("connection reset")
	}
	if res, ok := f.results[method]; ok {
		return json.RawMessage(res), nil
	}
	return json.RawMessage("true"), nil
}

type ClientSuite struct {
	suite.Suite
	querier *fakeQuerier
	client  *Client
	ctx     context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.querier = &fakeQuerier{results: map[string]string{}, failing: map[string]bool{}}
	s.client = NewClient(s.querier, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ClientSuite) TestForceSpectatorSendsLoginAndMode() {
	s.Require().NoError(s.client.ForceSpectator(s.ctx, "alice", model.SpectatorForced))

	s.Require().Len(s.querier.calls, 1)
	s.Equal(MethodForceSpectator, s.querier.calls[0].method)
	s.Equal([]any{"alice", 1}, s.querier.calls[0].params)
}

func (s *ClientSuite) TestRestartTrackPassesWarmupFlag() {
	s.Require().NoError(s.client.RestartTrack(s.ctx, true))
	s.Equal([]any{true}, s.querier.calls[0].params)
}

func (s *ClientSuite) TestGameMode() {
	s.querier.results[MethodGetGameMode] = "4"

	mode, err := s.client.GameMode(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameModeStunts, mode)
}

func (s *ClientSuite) TestPlayers() {
	s.querier.results[MethodGetPlayerList] = `[
		{"Login": "alice", "NickName": "Alice", "IsSpectator": false},
		{"Login": "bob", "NickName": "Bob", "IsSpectator": true}
	]`

	players, err := s.client.Players(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.ServerPlayer{
		{Login: "alice", Nickname: "Alice"},
		{Login: "bob", Nickname: "Bob", IsSpectator: true},
	}, players)
}

func (s *ClientSuite) TestCurrentTrack() {
	s.querier.results[MethodGetCurrentMapInfo] = `{"UId": "abc", "Name": "A01", "Author": "nadeo", "AuthorTime": 23456}`

	track, err := s.client.CurrentTrack(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.TrackInfo{UID: "abc", Name: "A01", Author: "nadeo", AuthorTime: 23456}, track)
}

func (s *ClientSuite) TestQueryFailureWrapsSentinel() {
	s.querier.failing[MethodGetWarmUp] = true

	_, err := s.client.IsWarmup(s.ctx)
	s.ErrorIs(err, model.ErrQueryFailed)
}

func (s *ClientSuite) TestDecodeFailureWrapsSentinel() {
	s.querier.results[MethodGetRoundsPerMap] = `"lots"`

	_, err := s.client.RoundsPerTrack(s.ctx)
	s.ErrorIs(err, model.ErrQueryFailed)
}
