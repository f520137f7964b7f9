package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	results   map[model.KnockoutID]*model.KnockoutResult
	wins      map[string]int
	nicknames map[string]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		results:   make(map[model.KnockoutID]*model.KnockoutResult),
		wins:      make(map[string]int),
		nicknames: make(map[string]string),
	}
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveResult(ctx context.Context, result *model.KnockoutResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.results[result.ID]; ok {
		s.uncountWin(prev)
	}
	stored := *result
	stored.Eliminations = append([]model.Elimination(nil), result.Eliminations...)
	s.results[result.ID] = &stored

	if result.Winner != "" {
		s.wins[result.Winner]++
		s.nicknames[result.Winner] = result.WinnerNickname
	}
	return nil
}

func (s *Storage) GetResult(ctx context.Context, id model.KnockoutID) (*model.KnockoutResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	out := *result
	return &out, nil
}

func (s *Storage) ListResults(ctx context.Context, limit int) ([]*model.KnockoutResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.KnockoutResult, 0, len(s.results))
	for _, r := range s.results {
		out := *r
		results = append(results, &out)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].EndedAt.Equal(results[j].EndedAt) {
			return results[i].EndedAt.After(results[j].EndedAt)
		}
		return results[i].ID > results[j].ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Storage) DeleteResult(ctx context.Context, id model.KnockoutID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result, ok := s.results[id]; ok {
		s.uncountWin(result)
		delete(s.results, id)
	}
	return nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.WinCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board := make([]model.WinCount, 0, len(s.wins))
	for login, wins := range s.wins {
		board = append(board, model.WinCount{Login: login, Nickname: s.nicknames[login], Wins: wins})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Wins != board[j].Wins {
			return board[i].Wins > board[j].Wins
		}
		return board[i].Login < board[j].Login
	})

	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	return board, nil
}

func (s *Storage) uncountWin(result *model.KnockoutResult) {
	if result.Winner == "" {
		return
	}
	s.wins[result.Winner]--
	if s.wins[result.Winner] <= 0 {
		delete(s.wins, result.Winner)
		delete(s.nicknames, result.Winner)
	}
}
