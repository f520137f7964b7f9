package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
)

// ServerCall is one recorded call to MockServer
type ServerCall struct {
	Method string
	Args   []any
}

// MockServer is an in-memory host.Server that records calls.
// Queries return the configured fields; Fail makes a method return an error.
type MockServer struct {
	mu sync.Mutex

	Mode        model.GameMode
	Warmup      bool
	Rounds      int
	PlayerList  []model.ServerPlayer
	Current     model.TrackInfo
	Next        model.TrackInfo
	Spectators  map[string]model.SpectatorMode
	Calls       []ServerCall
	failMethods map[string]bool
}

var _ host.Server = (*MockServer)(nil)

// ErrMockQuery is returned by failing MockServer methods
var ErrMockQuery = errors.New("mock query failed")

// NewMockServer creates a MockServer in Rounds mode with no players
func NewMockServer() *MockServer {
	return &MockServer{
		Mode:        model.GameModeRounds,
		Rounds:      1,
		Spectators:  make(map[string]model.SpectatorMode),
		failMethods: make(map[string]bool),
	}
}

// Fail makes the named method return an error
func (s *MockServer) Fail(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMethods[method] = true
}

// AddPlayer adds a player to the reported player list
func (s *MockServer) AddPlayer(login, nickname string, spectator bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PlayerList = append(s.PlayerList, model.ServerPlayer{Login: login, Nickname: nickname, IsSpectator: spectator})
}

// CallsTo returns the recorded calls to method
func (s *MockServer) CallsTo(method string) []ServerCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ServerCall
	for _, c := range s.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// SpectatorModeOf returns the last mode forced on login
func (s *MockServer) SpectatorModeOf(login string) (model.SpectatorMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode, ok := s.Spectators[login]
	return mode, ok
}

// Reset clears recorded calls
func (s *MockServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = nil
	s.Spectators = make(map[string]model.SpectatorMode)
}

func (s *MockServer) record(method string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ServerCall{Method: method, Args: args})
	if s.failMethods[method] {
		return fmt.Errorf("%w: %s: %w", model.ErrQueryFailed, method, ErrMockQuery)
	}
	return nil
}

func (s *MockServer) ForceSpectator(_ context.Context, login string, mode model.SpectatorMode) error {
	if err := s.record("ForceSpectator", login, mode); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Spectators[login] = mode
	return nil
}

func (s *MockServer) RestartTrack(_ context.Context, withWarmup bool) error {
	return s.record("RestartTrack", withWarmup)
}

func (s *MockServer) SkipTrack(_ context.Context) error {
	return s.record("SkipTrack")
}

func (s *MockServer) RestartRound(_ context.Context) error {
	return s.record("RestartRound")
}

func (s *MockServer) EndWarmup(_ context.Context) error {
	return s.record("EndWarmup")
}

func (s *MockServer) GameMode(_ context.Context) (model.GameMode, error) {
	if err := s.record("GameMode"); err != nil {
		return 0, err
	}
	return s.Mode, nil
}

func (s *MockServer) IsWarmup(_ context.Context) (bool, error) {
	if err := s.record("IsWarmup"); err != nil {
		return false, err
	}
	return s.Warmup, nil
}

func (s *MockServer) RoundsPerTrack(_ context.Context) (int, error) {
	if err := s.record("RoundsPerTrack"); err != nil {
		return 0, err
	}
	return s.Rounds, nil
}

func (s *MockServer) SetRoundsPerTrack(_ context.Context, rounds int) error {
	if err := s.record("SetRoundsPerTrack", rounds); err != nil {
		return err
	}
	s.Rounds = rounds
	return nil
}

func (s *MockServer) Players(_ context.Context) ([]model.ServerPlayer, error) {
	if err := s.record("Players"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ServerPlayer, len(s.PlayerList))
	copy(out, s.PlayerList)
	return out, nil
}

func (s *MockServer) CurrentTrack(_ context.Context) (model.TrackInfo, error) {
	if err := s.record("CurrentTrack"); err != nil {
		return model.TrackInfo{}, err
	}
	return s.Current, nil
}

func (s *MockServer) NextTrack(_ context.Context) (model.TrackInfo, error) {
	if err := s.record("NextTrack"); err != nil {
		return model.TrackInfo{}, err
	}
	return s.Next, nil
}
