package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/knockout/internal/dependencies/mocks"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte("relay-secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service, err = New(string(hash), s.clock, DefaultConfig())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestVerifyAcceptsToken() {
	s.True(s.service.Enabled())
	s.NoError(s.service.Verify("relay-secret"))
}

func (s *ServiceSuite) TestVerifyRejectsWrongToken() {
	s.ErrorIs(s.service.Verify("guess"), ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyRejectsMissingToken() {
	s.ErrorIs(s.service.Verify(""), ErrMissingToken)
}

func (s *ServiceSuite) TestVerifiedTokenIsCached() {
	s.Require().NoError(s.service.Verify("relay-secret"))
	s.Len(s.service.verified, 1)

	// A wrong token never enters the cache
	_ = s.service.Verify("guess")
	s.Len(s.service.verified, 1)
}

func (s *ServiceSuite) TestCleanExpiredRemovesOldEntries() {
	s.Require().NoError(s.service.Verify("relay-secret"))

	s.clock.Advance(5 * time.Minute)
	s.service.CleanExpired()
	s.Len(s.service.verified, 1)

	s.clock.Advance(6 * time.Minute)
	s.service.CleanExpired()
	s.Empty(s.service.verified)

	// Still verifiable after the cache entry is gone
	s.NoError(s.service.Verify("relay-secret"))
}

func (s *ServiceSuite) TestDisabledWithoutHash() {
	service, err := New("", s.clock, Config{})
	s.Require().NoError(err)

	s.False(service.Enabled())
	s.NoError(service.Verify(""))
}

func (s *ServiceSuite) TestNewRejectsMalformedHash() {
	_, err := New("not-a-bcrypt-hash", s.clock, DefaultConfig())
	s.Error(err)
}

func (s *ServiceSuite) TestHashTokenRoundTrip() {
	hash, err := HashToken("another")
	s.Require().NoError(err)

	service, err := New(hash, s.clock, DefaultConfig())
	s.Require().NoError(err)
	s.NoError(service.Verify("another"))

	_, err = HashToken("")
	s.ErrorIs(err, ErrMissingToken)
}
