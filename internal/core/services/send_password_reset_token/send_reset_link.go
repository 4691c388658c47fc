package sendpasswordresettoken

import (
	"context"
	e "vitalance/internal/core/domain/errors"
	"vitalance/internal/core/domain/logging"
	"vitalance/internal/core/domain/user"
	"vitalance/internal/core/services"
)

type serviceWithResetLinkSending struct {
	log    logging.Logger
	sender user.ResetLinkSender
	inner  services.Service[Input, Result]
}

func NewWithResetLinkSending(
	log logging.Logger,
	sender user.ResetLinkSender,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithResetLinkSending{
		log:    log,
		sender: sender,
		inner:  inner,
	}
}

func (s *serviceWithResetLinkSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil {
		return result, err
	}
	if !result.User.IsPresent || !result.Token.IsPresent {
		return result, nil
	}

	// Best effort: a delivery failure must not change the response.
	sendErr := s.sender.SendResetLink(ctx, result.User.Value, result.Token.Value)
	if sendErr != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("userId", result.User.Value.ID),
			logging.Entry("err", sendErr),
		)
		return result, nil
	}

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("userId", result.User.Value.ID),
	)
	return result, nil
}
