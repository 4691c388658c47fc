package streak

import (
	"context"
	"fmt"
	"sync"
	"vitalance/internal/core/domain/user"
)

type FakeRepository struct {
	Records     map[user.ID]Record
	ReturnError bool
	// ConflictsBeforeSuccess makes the next N updates fail with
	// ErrVersionConflict, simulating a concurrent writer.
	ConflictsBeforeSuccess int
	UpdateCount            int
	lock                   sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Records: make(map[user.ID]Record)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateRecordInput) (rec Record, err error) {
	if r.ReturnError {
		return rec, fmt.Errorf("could not create streak record for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.Records[input.UserID]; ok {
		return rec, ErrVersionConflict
	}
	rec = Record{
		UserID:        input.UserID,
		CurrentStreak: input.CurrentStreak,
		LastLoginDate: input.LastLoginDate,
		Version:       1,
	}
	r.Records[input.UserID] = rec
	return rec, nil
}

func (r *FakeRepository) GetByUserID(ctx context.Context, userID user.ID) (rec Record, err error) {
	if r.ReturnError {
		return rec, fmt.Errorf("could not get streak record for user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	rec, ok := r.Records[userID]
	if !ok {
		return rec, ErrRecordDoesNotExist
	}
	return rec, nil
}

func (r *FakeRepository) Update(ctx context.Context, input UpdateRecordInput) (rec Record, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UpdateCount++
	if r.ConflictsBeforeSuccess > 0 {
		r.ConflictsBeforeSuccess--
		current := r.Records[input.UserID]
		current.Version++
		r.Records[input.UserID] = current
		return rec, ErrVersionConflict
	}
	current, ok := r.Records[input.UserID]
	if !ok {
		return rec, ErrRecordDoesNotExist
	}
	if current.Version != input.ReadVersion {
		return rec, ErrVersionConflict
	}
	rec = Record{
		UserID:        input.UserID,
		CurrentStreak: input.CurrentStreak,
		LastLoginDate: input.LastLoginDate,
		Version:       current.Version + 1,
	}
	r.Records[input.UserID] = rec
	return rec, nil
}
