package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	// ErrInvalidCredentials is returned both for an unknown email and for a
	// wrong password, so the caller cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrResetTokenDoesNotExist       = errors.New("password reset token is invalid")
	ErrResetTokenExpired            = errors.New("password reset token has expired")
	ErrPasswordConfirmationMismatch = errors.New("password and confirmation do not match")
	ErrPasswordSameAsCurrent        = errors.New("new password must differ from the current one")
)

var (
	ErrSessionTokenMalformed = errors.New("session token is malformed")
	ErrSessionTokenExpired   = errors.New("session token has expired")
	ErrSessionTokenInvalid   = errors.New("session token is invalid")
)
