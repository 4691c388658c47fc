package sessiontoken

import (
	"errors"
	"testing"
	"time"
	"vitalance/internal/core/domain/user"

	"github.com/stretchr/testify/suite"
)

const (
	SECRET        = "test-secret"
	USER_ID       = user.ID(42)
	TOKEN_TTL     = time.Hour
	MALFORMED_RAW = "not-a-token"
)

var NOW = time.Date(2023, 5, 10, 15, 4, 5, 0, time.UTC)

type testSuite struct {
	suite.Suite
	now    time.Time
	signer *HS256Signer
}

func (s *testSuite) SetupTest() {
	s.now = NOW
	s.signer = NewHS256Signer(SECRET, func() time.Time { return s.now })
}

func TestHS256Signer(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSignedTokenVerifies() {
	token := s.sign()

	principal, err := s.signer.Verify(token)

	s.Nil(err)
	s.Equal(USER_ID, principal.UserID)
	s.Equal([]user.Role{user.RoleUser}, principal.Roles)
}

func (s *testSuite) TestMalformedToken() {
	_, err := s.signer.Verify(user.SessionToken(MALFORMED_RAW))

	s.True(errors.Is(err, user.ErrSessionTokenMalformed))
}

func (s *testSuite) TestExpiredToken() {
	token := s.sign()
	s.now = NOW.Add(TOKEN_TTL + time.Second)

	_, err := s.signer.Verify(token)

	s.True(errors.Is(err, user.ErrSessionTokenExpired))
}

func (s *testSuite) TestTokenValidUntilExpiry() {
	token := s.sign()
	s.now = NOW.Add(TOKEN_TTL - time.Second)

	_, err := s.signer.Verify(token)

	s.Nil(err)
}

func (s *testSuite) TestTokenSignedWithOtherSecret() {
	other := NewHS256Signer("other-secret", func() time.Time { return s.now })
	token, err := other.Sign(USER_ID, TOKEN_TTL)
	s.Nil(err)

	_, err = s.signer.Verify(token)

	s.True(errors.Is(err, user.ErrSessionTokenInvalid))
}

func (s *testSuite) sign() user.SessionToken {
	s.T().Helper()
	token, err := s.signer.Sign(USER_ID, TOKEN_TTL)
	s.Nil(err)
	return token
}
