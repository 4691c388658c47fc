package trackstreak

import (
	"context"
	"errors"
	"time"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	"vitalance/internal/core/domain/streak"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"

	"github.com/golang-module/carbon/v2"
)

// maxAttempts bounds the optimistic-concurrency retry. Conflicts are expected
// only when the same user hits the dashboard from two devices at the same
// instant, so the terminal error should be extremely rare.
const maxAttempts = 5

type Input struct {
	UserID user.ID
}

type Result struct {
	CurrentStreak int
}

type service struct {
	log              logging.Logger
	streakRepository streak.Repository
	location         *time.Location
	now              func() time.Time
}

func New(
	log logging.Logger,
	streakRepository streak.Repository,
	location *time.Location,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if streakRepository == nil {
		panic(e.NewNilArgumentError("streakRepository"))
	}
	if location == nil {
		panic(e.NewNilArgumentError("location"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:              log,
		streakRepository: streakRepository,
		location:         location,
		now:              now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	today := s.today()
	yesterday := carbon.Time2Carbon(today).SubDay().Carbon2Time()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		currentStreak, err := s.attempt(ctx, input.UserID, today, yesterday)
		if errors.Is(err, streak.ErrVersionConflict) {
			s.log.Info(
				ctx,
				"Concurrent streak update detected, retrying.",
				logging.Entry("userId", input.UserID),
				logging.Entry("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return result, err
		}
		return Result{CurrentStreak: currentStreak}, nil
	}

	s.log.Error(
		ctx,
		"Streak update retries exhausted.",
		logging.Entry("userId", input.UserID),
		logging.Entry("maxAttempts", maxAttempts),
	)
	return result, streak.ErrConcurrencyExhausted
}

func (s *service) attempt(
	ctx context.Context,
	userID user.ID,
	today time.Time,
	yesterday time.Time,
) (currentStreak int, err error) {
	rec, err := s.streakRepository.GetByUserID(ctx, userID)
	if errors.Is(err, streak.ErrRecordDoesNotExist) {
		created, err := s.streakRepository.Create(ctx, streak.CreateRecordInput{
			UserID:        userID,
			CurrentStreak: 1,
			LastLoginDate: today,
		})
		if err != nil {
			return 0, err
		}
		s.log.Info(ctx, "Streak record has been created.", logging.Entry("userId", userID))
		return created.CurrentStreak, nil
	}
	if errors.Is(err, context.Canceled) {
		return 0, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get streak record.",
			logging.Entry("userId", userID),
			logging.Entry("err", err),
		)
		return 0, err
	}

	switch {
	case rec.LastLoginDate.Equal(today):
		// Already counted today, nothing to persist.
		return rec.CurrentStreak, nil
	case rec.LastLoginDate.Equal(yesterday):
		currentStreak = rec.CurrentStreak + 1
	default:
		currentStreak = 1
	}

	updated, err := s.streakRepository.Update(ctx, streak.UpdateRecordInput{
		UserID:        userID,
		CurrentStreak: currentStreak,
		LastLoginDate: today,
		ReadVersion:   rec.Version,
	})
	if errors.Is(err, streak.ErrVersionConflict) || errors.Is(err, context.Canceled) {
		return 0, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update streak record.",
			logging.Entry("userId", userID),
			logging.Entry("err", err),
		)
		return 0, err
	}
	return updated.CurrentStreak, nil
}

// today returns the current calendar date in the reference timezone,
// normalized to midnight UTC so date equality does not depend on offsets.
func (s *service) today() time.Time {
	local := carbon.Time2Carbon(s.now().In(s.location))
	return time.Date(local.Year(), time.Month(local.Month()), local.Day(), 0, 0, 0, 0, time.UTC)
}
