package getuserbysessiontoken

import (
	"context"
	"errors"
	"testing"
	"time"
	c "vitalance/internal/core/domain/common"
	"vitalance/internal/core/domain/logging"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	TokenSigner    *user.FakeSessionTokenSigner
	Service        services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.TokenSigner = user.NewFakeSessionTokenSigner()
	suite.Service = New(suite.Logger, suite.TokenSigner, suite.UserRepository)
}

func TestGetUserBySessionTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	u := s.createUser()
	token, err := s.TokenSigner.Sign(u.ID, time.Hour)
	s.Nil(err)

	result, err := s.Service.Run(context.Background(), Input{Token: token})

	s.Nil(err)
	s.Equal(u, result.User)
	s.Equal(u.ID, result.Principal.UserID)
	s.Equal([]user.Role{user.RoleUser}, result.Principal.Roles)
}

func (s *testSuite) TestMalformedToken() {
	s.createUser()

	_, err := s.Service.Run(context.Background(), Input{Token: "garbage"})

	s.True(errors.Is(err, user.ErrSessionTokenMalformed))
}

func (s *testSuite) TestSubjectDoesNotResolve() {
	token, err := s.TokenSigner.Sign(user.ID(404), time.Hour)
	s.Nil(err)

	_, err = s.Service.Run(context.Background(), Input{Token: token})

	s.True(errors.Is(err, user.ErrSessionTokenInvalid))
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	u, err := s.UserRepository.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        c.NewEmail("test@test.test"),
			PasswordHash: user.PasswordHash("test"),
			CreatedAt:    time.Now().UTC(),
		},
	)
	if err != nil {
		s.FailNow(err.Error())
	}
	return u
}
