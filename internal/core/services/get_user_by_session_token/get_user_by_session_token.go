package getuserbysessiontoken

import (
	"context"
	"errors"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"
)

type Input struct {
	Token user.SessionToken
}

type Result struct {
	Principal user.AuthenticatedPrincipal
	User      user.User
}

type service struct {
	log            logging.Logger
	tokenSigner    user.SessionTokenSigner
	userRepository user.UserRepository
}

func New(
	log logging.Logger,
	tokenSigner user.SessionTokenSigner,
	userRepository user.UserRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenSigner == nil {
		panic(e.NewNilArgumentError("tokenSigner"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{
		log:            log,
		tokenSigner:    tokenSigner,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	principal, err := s.tokenSigner.Verify(input.Token)
	if err != nil {
		return result, err
	}
	u, err := s.userRepository.GetByID(ctx, principal.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Token subject no longer resolves to an account.
		return result, user.ErrSessionTokenInvalid
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by session token subject.",
			logging.Entry("userId", principal.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}
	return Result{Principal: principal, User: u}, nil
}
