package uow

import (
	"context"
	"errors"
	"testing"
	"time"
	c "vitalance/internal/core/domain/common"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/db"
	dbuser "vitalance/internal/db/user"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL       = "test@test.test"
	RESET_TOKEN = "test-reset-token"
)

var NOW = time.Date(2023, 5, 10, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.uow = NewPgxUnitOfWork(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCommitPersistsChanges() {
	ctx := context.Background()
	createdUser := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)

	_, err = uow.ResetTokens().Create(ctx, user.CreateResetTokenInput{
		Token:     user.ResetTokenValue(RESET_TOKEN),
		UserID:    createdUser.ID,
		ExpiresAt: NOW.Add(time.Hour),
	})
	s.Require().Nil(err)
	s.Require().Nil(uow.Commit(ctx))

	repo := dbuser.NewPgxResetTokenRepository(s.pool)
	token, err := repo.GetByToken(ctx, user.ResetTokenValue(RESET_TOKEN))
	s.Nil(err)
	s.Equal(createdUser.ID, token.UserID)
}

func (s *testSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	createdUser := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)

	_, err = uow.ResetTokens().Create(ctx, user.CreateResetTokenInput{
		Token:     user.ResetTokenValue(RESET_TOKEN),
		UserID:    createdUser.ID,
		ExpiresAt: NOW.Add(time.Hour),
	})
	s.Require().Nil(err)
	s.Require().Nil(uow.Rollback(ctx))

	repo := dbuser.NewPgxResetTokenRepository(s.pool)
	_, err = repo.GetByToken(ctx, user.ResetTokenValue(RESET_TOKEN))
	s.True(errors.Is(err, user.ErrResetTokenDoesNotExist))
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	repo := dbuser.NewPgxRepository(s.pool)
	u, err := repo.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email(EMAIL),
		PasswordHash: user.PasswordHash("test-password-hash"),
		CreatedAt:    NOW,
	})
	s.Require().Nil(err)
	return u
}
