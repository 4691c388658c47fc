package streak

import (
	"context"
	"errors"
	"testing"
	"time"
	c "vitalance/internal/core/domain/common"
	"vitalance/internal/core/domain/streak"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/db"
	dbuser "vitalance/internal/db/user"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var (
	NOW   = time.Date(2023, 5, 10, 15, 30, 30, 0, time.UTC)
	TODAY = time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
)

type testSuite struct {
	suite.Suite
	pool     *pgxpool.Pool
	userRepo *dbuser.PgxUserRepository
	repo     *PgxStreakRepository
	user     user.User
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.userRepo = dbuser.NewPgxRepository(suite.pool)
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) SetupTest() {
	u, err := suite.userRepo.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email("test@test.test"),
		PasswordHash: user.PasswordHash("test-password-hash"),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.user = u
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxStreakRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateSuccess() {
	rec, err := s.repo.Create(context.Background(), streak.CreateRecordInput{
		UserID:        s.user.ID,
		CurrentStreak: 1,
		LastLoginDate: TODAY,
	})

	s.Nil(err)
	s.Equal(s.user.ID, rec.UserID)
	s.Equal(1, rec.CurrentStreak)
	s.True(TODAY.Equal(rec.LastLoginDate))
	s.Equal(streak.Version(1), rec.Version)
}

func (s *testSuite) TestCreateConflictsIfRecordExists() {
	s.createRecord(1, TODAY)

	_, err := s.repo.Create(context.Background(), streak.CreateRecordInput{
		UserID:        s.user.ID,
		CurrentStreak: 1,
		LastLoginDate: TODAY,
	})

	s.True(errors.Is(err, streak.ErrVersionConflict))
}

func (s *testSuite) TestGetByUserID() {
	created := s.createRecord(3, TODAY)

	rec, err := s.repo.GetByUserID(context.Background(), s.user.ID)

	s.Nil(err)
	s.Equal(created.UserID, rec.UserID)
	s.Equal(3, rec.CurrentStreak)
	s.True(TODAY.Equal(rec.LastLoginDate))
	s.Equal(created.Version, rec.Version)
}

func (s *testSuite) TestGetByUserIDNotFound() {
	_, err := s.repo.GetByUserID(context.Background(), user.ID(123456))

	s.True(errors.Is(err, streak.ErrRecordDoesNotExist))
}

func (s *testSuite) TestUpdateSuccess() {
	created := s.createRecord(3, TODAY.AddDate(0, 0, -1))

	rec, err := s.repo.Update(context.Background(), streak.UpdateRecordInput{
		UserID:        s.user.ID,
		CurrentStreak: 4,
		LastLoginDate: TODAY,
		ReadVersion:   created.Version,
	})

	s.Nil(err)
	s.Equal(4, rec.CurrentStreak)
	s.True(TODAY.Equal(rec.LastLoginDate))
	s.Equal(created.Version+1, rec.Version)
}

func (s *testSuite) TestUpdateStaleVersionConflicts() {
	created := s.createRecord(3, TODAY.AddDate(0, 0, -1))

	_, err := s.repo.Update(context.Background(), streak.UpdateRecordInput{
		UserID:        s.user.ID,
		CurrentStreak: 4,
		LastLoginDate: TODAY,
		ReadVersion:   created.Version + 1,
	})

	s.True(errors.Is(err, streak.ErrVersionConflict))

	rec, err := s.repo.GetByUserID(context.Background(), s.user.ID)
	s.Nil(err)
	s.Equal(3, rec.CurrentStreak)
}

func (s *testSuite) createRecord(currentStreak int, lastLoginDate time.Time) streak.Record {
	s.T().Helper()
	rec, err := s.repo.Create(context.Background(), streak.CreateRecordInput{
		UserID:        s.user.ID,
		CurrentStreak: currentStreak,
		LastLoginDate: lastLoginDate,
	})
	s.Require().Nil(err)
	return rec
}
