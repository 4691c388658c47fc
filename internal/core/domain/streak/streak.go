package streak

import (
	"errors"
	"time"
	"vitalance/internal/core/domain/user"
)

var (
	ErrRecordDoesNotExist = errors.New("streak record does not exist")
	// ErrVersionConflict signals that a concurrent writer advanced the record
	// between the read and the write.
	ErrVersionConflict      = errors.New("streak record version conflict")
	ErrConcurrencyExhausted = errors.New("streak update retries exhausted")
)

type Version int64

// Record tracks the number of consecutive calendar days a user has opened
// the dashboard. LastLoginDate carries a calendar date only, its time part
// is always midnight.
type Record struct {
	UserID        user.ID
	CurrentStreak int
	LastLoginDate time.Time
	Version       Version
}
