package deleteexpiredresettokens

import (
	"context"
	"errors"
	"time"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"
)

type Input struct{}

type Result struct {
	DeletedCount int64
}

// Garbage collection only: lazy deletion in the reset flow already guarantees
// an expired token is never honored, the sweep just keeps the table small.
type service struct {
	log             logging.Logger
	tokenRepository user.ResetTokenRepository
	now             func() time.Time
}

func New(
	log logging.Logger,
	tokenRepository user.ResetTokenRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		tokenRepository: tokenRepository,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	count, err := s.tokenRepository.DeleteAllExpiredSince(ctx, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not delete expired reset tokens.", logging.Entry("err", err))
		return result, err
	}

	if count > 0 {
		s.log.Info(
			ctx,
			"Expired reset tokens have been deleted.",
			logging.Entry("count", count),
		)
	}
	return Result{DeletedCount: count}, nil
}
