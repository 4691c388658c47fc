package user

import (
	"context"
	"time"
)

type ResetTokenValue string

func (t ResetTokenValue) String() string {
	return "***"
}

// ResetToken is a single-use credential for setting a new password without
// signing in. The token string is the natural key. At most one live token
// exists per user, enforced by DeleteAllForUser before every Create.
type ResetToken struct {
	Token     ResetTokenValue
	UserID    ID
	ExpiresAt time.Time
}

func (t *ResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type CreateResetTokenInput struct {
	Token     ResetTokenValue
	UserID    ID
	ExpiresAt time.Time
}

type ResetTokenRepository interface {
	Create(ctx context.Context, input CreateResetTokenInput) (ResetToken, error)
	GetByToken(ctx context.Context, token ResetTokenValue) (ResetToken, error)
	DeleteByToken(ctx context.Context, token ResetTokenValue) error
	DeleteAllForUser(ctx context.Context, userID ID) error
	DeleteAllExpiredSince(ctx context.Context, now time.Time) (count int64, err error)
}

type ResetTokenGenerator interface {
	GenerateResetToken() ResetTokenValue
}

// ResetLinkSender delivers the reset link to the user. Delivery is
// best-effort, callers must not fail the reset request on a send error.
type ResetLinkSender interface {
	SendResetLink(ctx context.Context, u User, token ResetTokenValue) error
}
