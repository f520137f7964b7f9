package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/knockout/internal/dependencies/clock"
)

// Errors
var (
	ErrMissingToken = errors.New("missing bridge token")
	ErrInvalidToken = errors.New("invalid bridge token")
)

// Service checks the bearer token the host relay presents on every callback.
// Only a bcrypt hash of the token is configured. Verified tokens are
// remembered for a while so that not every callback pays for a bcrypt compare.
type Service struct {
	hash  []byte
	clock clock.Clock

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]time.Time

	cacheDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	CacheDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		CacheDuration: 10 * time.Minute,
	}
}

// New creates a Service for a bcrypt token hash. An empty hash disables
// authentication.
func New(tokenHash string, clock clock.Clock, cfg Config) (*Service, error) {
	if tokenHash != "" {
		if _, err := bcrypt.Cost([]byte(tokenHash)); err != nil {
			return nil, fmt.Errorf("invalid bridge token hash: %w", err)
		}
	}
	if cfg.CacheDuration == 0 {
		cfg.CacheDuration = DefaultConfig().CacheDuration
	}
	return &Service{
		hash:          []byte(tokenHash),
		clock:         clock,
		verified:      make(map[[sha256.Size]byte]time.Time),
		cacheDuration: cfg.CacheDuration,
	}, nil
}

// Enabled reports whether callbacks need a token
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// Verify checks a presented token against the configured hash
func (s *Service) Verify(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return ErrMissingToken
	}

	key := sha256.Sum256([]byte(token))
	now := s.clock.Now()

	s.mu.RLock()
	expiresAt, ok := s.verified[key]
	s.mu.RUnlock()
	if ok && now.Before(expiresAt) {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(token)); err != nil {
		return ErrInvalidToken
	}

	s.mu.Lock()
	s.verified[key] = now.Add(s.cacheDuration)
	s.mu.Unlock()
	return nil
}

// CleanExpired forgets verified tokens whose cache entry has expired (call periodically)
func (s *Service) CleanExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, expiresAt := range s.verified {
		if !now.Before(expiresAt) {
			delete(s.verified, key)
		}
	}
}

// HashToken returns the bcrypt hash to configure for token
func HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
