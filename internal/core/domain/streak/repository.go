package streak

import (
	"context"
	"time"
	"vitalance/internal/core/domain/user"
)

type CreateRecordInput struct {
	UserID        user.ID
	CurrentStreak int
	LastLoginDate time.Time
}

type UpdateRecordInput struct {
	UserID        user.ID
	CurrentStreak int
	LastLoginDate time.Time
	// ReadVersion is the version observed when the record was loaded. The
	// update fails with ErrVersionConflict if the stored version differs.
	ReadVersion Version
}

type Repository interface {
	// Create fails with ErrVersionConflict when a record for the user
	// already exists (a concurrent creator won the race).
	Create(ctx context.Context, input CreateRecordInput) (Record, error)
	GetByUserID(ctx context.Context, userID user.ID) (Record, error)
	Update(ctx context.Context, input UpdateRecordInput) (Record, error)
}
