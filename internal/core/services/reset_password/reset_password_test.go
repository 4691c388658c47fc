package resetpassword

import (
	"context"
	"errors"
	"testing"
	"time"
	c "vitalance/internal/core/domain/common"
	"vitalance/internal/core/domain/logging"
	uow "vitalance/internal/core/domain/unit_of_work"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL        = c.Email("test@test.test")
	OLD_PASSWORD = user.RawPassword("old-password")
	NEW_PASSWORD = user.RawPassword("new-password")
	RESET_TOKEN  = user.ResetTokenValue("11111111-2222-3333-4444-555555555555")
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	PasswordHasher *user.FakePasswordHasher
	Service        services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.PasswordHasher = user.NewFakePasswordHasher()
	suite.Service = New(
		suite.Logger,
		suite.UnitOfWork,
		suite.PasswordHasher,
		func() time.Time { return NOW },
	)
}

func TestResetPasswordService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	u := s.createUser()
	s.createToken(u.ID, NOW.Add(time.Hour))

	result, err := s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: NEW_PASSWORD,
	})

	s.Nil(err)
	s.Equal(SuccessMessage, result.Message)
	s.True(s.UnitOfWork.Context.WasCommitCalled)
	s.assertPasswordIs(u.ID, NEW_PASSWORD)
	s.Empty(s.UnitOfWork.Context.ResetTokenRepository.TokensForUser(u.ID))
}

func (s *testSuite) TestTokenIsSingleUse() {
	u := s.createUser()
	s.createToken(u.ID, NOW.Add(time.Hour))

	_, err := s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: NEW_PASSWORD,
	})
	s.Nil(err)

	_, err = s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     user.RawPassword("another-password"),
		ConfirmPassword: user.RawPassword("another-password"),
	})
	s.True(errors.Is(err, user.ErrResetTokenDoesNotExist))
	s.assertPasswordIs(u.ID, NEW_PASSWORD)
}

func (s *testSuite) TestConfirmationMismatch() {
	u := s.createUser()
	s.createToken(u.ID, NOW.Add(time.Hour))

	_, err := s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: user.RawPassword("different-password"),
	})

	s.True(errors.Is(err, user.ErrPasswordConfirmationMismatch))
	s.assertPasswordIs(u.ID, OLD_PASSWORD)
	s.Len(s.UnitOfWork.Context.ResetTokenRepository.TokensForUser(u.ID), 1)
}

func (s *testSuite) TestUnknownToken() {
	u := s.createUser()

	_, err := s.Service.Run(context.Background(), Input{
		Token:           user.ResetTokenValue("unknown-token"),
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: NEW_PASSWORD,
	})

	s.True(errors.Is(err, user.ErrResetTokenDoesNotExist))
	s.assertPasswordIs(u.ID, OLD_PASSWORD)
}

func (s *testSuite) TestExpiredTokenIsRejectedAndDeleted() {
	u := s.createUser()
	s.createToken(u.ID, NOW.Add(-time.Minute))

	_, err := s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: NEW_PASSWORD,
	})

	s.True(errors.Is(err, user.ErrResetTokenExpired))
	s.True(s.UnitOfWork.Context.WasCommitCalled)
	s.Empty(s.UnitOfWork.Context.ResetTokenRepository.TokensForUser(u.ID))
	s.assertPasswordIs(u.ID, OLD_PASSWORD)

	_, err = s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     NEW_PASSWORD,
		ConfirmPassword: NEW_PASSWORD,
	})
	s.True(errors.Is(err, user.ErrResetTokenDoesNotExist))
}

func (s *testSuite) TestNewPasswordMustDifferFromCurrent() {
	u := s.createUser()
	s.createToken(u.ID, NOW.Add(time.Hour))

	_, err := s.Service.Run(context.Background(), Input{
		Token:           RESET_TOKEN,
		NewPassword:     OLD_PASSWORD,
		ConfirmPassword: OLD_PASSWORD,
	})

	s.True(errors.Is(err, user.ErrPasswordSameAsCurrent))
	s.Len(s.UnitOfWork.Context.ResetTokenRepository.TokensForUser(u.ID), 1)
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	passwordHash, err := s.PasswordHasher.HashPassword(OLD_PASSWORD)
	if err != nil {
		s.FailNow(err.Error())
	}
	u, err := s.UnitOfWork.Context.UserRepository.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        EMAIL,
			PasswordHash: passwordHash,
			CreatedAt:    NOW,
		},
	)
	if err != nil {
		s.FailNow(err.Error())
	}
	return u
}

func (s *testSuite) createToken(userID user.ID, expiresAt time.Time) {
	s.T().Helper()
	_, err := s.UnitOfWork.Context.ResetTokenRepository.Create(
		context.Background(),
		user.CreateResetTokenInput{
			Token:     RESET_TOKEN,
			UserID:    userID,
			ExpiresAt: expiresAt,
		},
	)
	if err != nil {
		s.FailNow(err.Error())
	}
}

func (s *testSuite) assertPasswordIs(userID user.ID, password user.RawPassword) {
	s.T().Helper()
	u, err := s.UnitOfWork.Context.UserRepository.GetByID(context.Background(), userID)
	s.Nil(err)
	s.True(s.PasswordHasher.ValidatePassword(password, u.PasswordHash))
}
