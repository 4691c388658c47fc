package services

import (
	"vitalance/internal/app/deps"
	drl "vitalance/internal/core/domain/rate_limiter"
	"vitalance/internal/core/services"
	deleteexpiredresettokens "vitalance/internal/core/services/delete_expired_reset_tokens"
	getuserbysessiontoken "vitalance/internal/core/services/get_user_by_session_token"
	loginwithemail "vitalance/internal/core/services/log_in_with_email"
	ratelimiting "vitalance/internal/core/services/rate_limiting"
	resetpassword "vitalance/internal/core/services/reset_password"
	sendpasswordresettoken "vitalance/internal/core/services/send_password_reset_token"
	signupwithemail "vitalance/internal/core/services/sign_up_with_email"
	trackstreak "vitalance/internal/core/services/track_streak"
)

type Services struct {
	SignUpWithEmail          services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail           services.Service[loginwithemail.Input, loginwithemail.Result]
	GetUserBySessionToken    services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	SendPasswordResetToken   services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword            services.Service[resetpassword.Input, resetpassword.Result]
	DeleteExpiredResetTokens services.Service[deleteexpiredresettokens.Input, deleteexpiredresettokens.Result]
	TrackStreak              services.Service[trackstreak.Input, trackstreak.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 10},
		loginwithemail.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.SessionTokenSigner,
			deps.Config.SessionTokenValidDuration,
		),
	)
	s.GetUserBySessionToken = getuserbysessiontoken.New(
		deps.Logger,
		deps.SessionTokenSigner,
		deps.UserRepository,
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		sendpasswordresettoken.NewWithResetLinkSending(
			deps.Logger,
			deps.ResetLinkSender,
			sendpasswordresettoken.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.UserRepository,
				deps.ResetTokenGenerator,
				deps.Config.PasswordResetValidDuration,
				deps.Now,
			),
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.DeleteExpiredResetTokens = deleteexpiredresettokens.New(
		deps.Logger,
		deps.ResetTokenRepository,
		deps.Now,
	)
	s.TrackStreak = trackstreak.New(
		deps.Logger,
		deps.StreakRepository,
		deps.StreakLocation,
		deps.Now,
	)

	return s
}
