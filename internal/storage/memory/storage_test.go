package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/knockout/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	base    time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) result(id, winner string, endOffset time.Duration) *model.KnockoutResult {
	return &model.KnockoutResult{
		ID:           model.KnockoutID(id),
		Winner:       winner,
		Rounds:       2,
		Players:      3,
		Eliminations: []model.Elimination{{Login: "c", Round: 1}, {Login: "b", Round: 2}},
		StartedAt:    s.base,
		EndedAt:      s.base.Add(endOffset),
	}
}

func (s *StorageSuite) TestSaveAndGetResult() {
	saved := s.result("ko-1", "alice", time.Minute)
	s.Require().NoError(s.storage.SaveResult(s.ctx, saved))

	got, err := s.storage.GetResult(s.ctx, "ko-1")
	s.Require().NoError(err)
	s.Equal(*saved, *got)
}

func (s *StorageSuite) TestStoredResultIsACopy() {
	saved := s.result("ko-1", "alice", time.Minute)
	s.Require().NoError(s.storage.SaveResult(s.ctx, saved))
	saved.Eliminations[0].Login = "mutated"

	got, err := s.storage.GetResult(s.ctx, "ko-1")
	s.Require().NoError(err)
	s.Equal("c", got.Eliminations[0].Login)
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
}

func (s *StorageSuite) TestLeaderboardAndDelete() {
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-1", "alice", time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-2", "bob", 2*time.Minute)))
	s.Require().NoError(s.storage.SaveResult(s.ctx, s.result("ko-3", "alice", 3*time.Minute)))

	board, err := s.storage.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 2)
	s.Equal("alice", board[0].Login)
	s.Equal(2, board[0].Wins)

	s.Require().NoError(s.storage.DeleteResult(s.ctx, "ko-2"))
	board, err = s.storage.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("alice", board[0].Login)
}
