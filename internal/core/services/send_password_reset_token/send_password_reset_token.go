package sendpasswordresettoken

import (
	"context"
	"errors"
	"time"
	c "vitalance/internal/core/domain/common"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	uow "vitalance/internal/core/domain/unit_of_work"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"
)

// ConfirmationMessage is returned for every request, whether or not the email
// belongs to an account, so responses cannot be used to enumerate accounts.
const ConfirmationMessage = "If the email is registered, you will receive a password reset link."

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

type Result struct {
	Message string
	// User and Token are set only when the email resolved to an account.
	// They exist for the sending decorator, the boundary exposes Message only.
	User  c.Optional[user.User]
	Token c.Optional[user.ResetTokenValue]
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	userRepository user.UserRepository
	tokenGenerator user.ResetTokenGenerator
	tokenTTL       time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	userRepository user.UserRepository,
	tokenGenerator user.ResetTokenGenerator,
	tokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		tokenTTL:       tokenTTL,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	result.Message = ConfirmationMessage

	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Password reset requested for unknown email, nothing to do.",
			logging.Entry("email", input.Email),
		)
		return result, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset request.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
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

	// At most one live token per user: every prior token is invalidated
	// before the new one is persisted.
	if err := uow.ResetTokens().DeleteAllForUser(ctx, u.ID); err != nil {
		if errors.Is(err, context.Canceled) {
			return result, err
		}
		s.log.Error(
			ctx,
			"Could not delete previous reset tokens.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	token := s.tokenGenerator.GenerateResetToken()
	createdToken, err := uow.ResetTokens().Create(ctx, user.CreateResetTokenInput{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.tokenTTL),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create reset token.",
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
		"Password reset token has been created.",
		logging.Entry("userId", u.ID),
		logging.Entry("expiresAt", createdToken.ExpiresAt),
	)
	result.User = c.NewOptional(u, true)
	result.Token = c.NewOptional(createdToken.Token, true)
	return result, nil
}
