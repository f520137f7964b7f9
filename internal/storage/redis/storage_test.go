package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/knockout/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	base    time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResultTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) result(id, winner string, endOffset time.Duration) *model.KnockoutResult {
	return &model.KnockoutResult{
		ID:             model.KnockoutID(id),
		Winner:         winner,
		WinnerNickname: "Nick " + winner,
		Rounds:         3,
		Players:        4,
		Eliminations: []model.Elimination{
			{Login: "d", Nickname: "D", Round: 1},
			{Login: "c", Nickname: "C", Round: 2},
			{Login: "b", Nickname: "B", Round: 3},
		},
		StartedAt: s.base,
		EndedAt:   s.base.Add(endOffset),
	}
}

func (s *StorageSuite) TestSaveAndGetResult() {
	saved := s.result("ko-1", "alice", time.Minute)
	s.Require().NoError(s.storage.SaveResult(s.ctx, saved))

	got, err := s.storage.GetResult(s.ctx, "ko-1")
	s.Require().NoError(err)
	s.Equal(saved.Winner, got.Winner)
	s.Equal(saved.Eliminations, got.Eliminations)
	s.True(saved.EndedAt.Equal(got.EndedAt))
}

func (s *StorageSuite) TestResultExpires() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-1", "alice", time.Minute)))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetResult(s.ctx, "ko-1")
	s.ErrorIs(err, model.ErrResultNotFound)

	results, err := s.storage.ListResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *StorageSuite) TestGetResultNotFound() {
	_, err := s.storage.GetResult(s.ctx, "missing")
	s.ErrorIs(err, model.ErrResultNotFound)
}

func (s *StorageSuite) TestListResultsNewestFirst() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-1", "alice", time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-3", "bob", 3*time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-2", "alice", 2*time.Minute)))

	results, err := s.storage.ListResults(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(model.KnockoutID("ko-3"), results[0].ID)
	s.Equal(model.KnockoutID("ko-2"), results[1].ID)

	all, err := s.storage.ListResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *StorageSuite) TestLeaderboard() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-1", "alice", time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-2", "bob", 2*time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-3", "alice", 3*time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-4", "", 4*time.Minute)))

	board, err := s.storage.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]model.WinCount{
		{Login: "alice", Nickname: "Nick alice", Wins: 2},
		{Login: "bob", Nickname: "Nick bob", Wins: 1},
	}, board)
}

func (s *StorageSuite) TestResaveDoesNotDoubleCountWin() {
	r := s.result("ko-1", "alice", time.Minute)
	s.Require().NoError(s.storage.SaveResult(s.ctx, r))
	s.Require().NoError(s.storage.SaveResult(s.ctx, r))

	board, err := s.storage.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(1, board[0].Wins)
}

func (s *StorageSuite) TestDeleteResult() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-1", "alice", time.Minute)))

	s.Require().NoError(s.storage.DeleteResult(s.ctx, "ko-1"))

	_, err := s.storage.GetResult(s.ctx, "ko-1")
	s.ErrorIs(err, model.ErrResultNotFound)

	board, err := s.storage.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(board)

	results, err := s.storage.ListResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *StorageSuite) TestDeleteMissingResultIsNoOp() {
	s.NoError(s.storage.DeleteResult(s.ctx, "missing"))
}
