package resetpassword

import (
	"context"
	"errors"
	"time"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	uow "vitalance/internal/core/domain/unit_of_work"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"
)

const SuccessMessage = "Your password has been reset."

type Input struct {
	Token           user.ResetTokenValue
	NewPassword     user.RawPassword
	ConfirmPassword user.RawPassword
}

type Result struct {
	Message string
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.NewPassword != input.ConfirmPassword {
		return result, user.ErrPasswordConfirmationMismatch
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	resetToken, err := uow.ResetTokens().GetByToken(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrResetTokenDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get reset token.", logging.Entry("err", err))
		return result, err
	}

	if resetToken.IsExpired(s.now()) {
		// Expired tokens are removed the moment they are touched. The
		// deletion is committed even though the operation fails.
		if err := uow.ResetTokens().DeleteByToken(ctx, resetToken.Token); err != nil {
			if errors.Is(err, context.Canceled) {
				return result, err
			}
			s.log.Error(
				ctx,
				"Could not delete expired reset token.",
				logging.Entry("userId", resetToken.UserID),
				logging.Entry("err", err),
			)
			return result, err
		}
		if err := uow.Commit(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return result, err
			}
			s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
			return result, err
		}
		s.log.Info(
			ctx,
			"Expired reset token has been deleted on access.",
			logging.Entry("userId", resetToken.UserID),
		)
		return result, user.ErrResetTokenExpired
	}

	u, err := uow.Users().GetByID(ctx, resetToken.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("userId", resetToken.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if s.passwordHasher.ValidatePassword(input.NewPassword, u.PasswordHash) {
		return result, user.ErrPasswordSameAsCurrent
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	// Password update and token consumption happen in the same transaction:
	// either both apply or the token stays valid for a retry.
	if err := uow.Users().SetPassword(ctx, u.ID, newPasswordHash); err != nil {
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if err := uow.ResetTokens().DeleteByToken(ctx, resetToken.Token); err != nil {
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		s.log.Error(
			ctx,
			"Could not delete consumed reset token.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set, reset token consumed.",
		logging.Entry("userId", u.ID),
	)
	return Result{Message: SuccessMessage}, nil
}
