package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
	c "vitalance/internal/core/domain/common"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakeResetTokenRepository struct {
	Tokens      []ResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetTokenRepository() *FakeResetTokenRepository {
	return &FakeResetTokenRepository{Tokens: make([]ResetToken, 0, 10)}
}

func (r *FakeResetTokenRepository) Create(ctx context.Context, input CreateResetTokenInput) (t ResetToken, err error) {
	if r.ReturnError {
		return t, fmt.Errorf("could not create reset token for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t = ResetToken{Token: input.Token, UserID: input.UserID, ExpiresAt: input.ExpiresAt}
	r.Tokens = append(r.Tokens, t)
	return t, nil
}

func (r *FakeResetTokenRepository) GetByToken(ctx context.Context, token ResetTokenValue) (t ResetToken, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, t := range r.Tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return t, ErrResetTokenDoesNotExist
}

func (r *FakeResetTokenRepository) DeleteByToken(ctx context.Context, token ResetTokenValue) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, t := range r.Tokens {
		if t.Token == token {
			r.Tokens = append(r.Tokens[:ix], r.Tokens[ix+1:]...)
			return nil
		}
	}
	return ErrResetTokenDoesNotExist
}

func (r *FakeResetTokenRepository) DeleteAllForUser(ctx context.Context, userID ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Tokens[:0]
	for _, t := range r.Tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	r.Tokens = kept
	return nil
}

func (r *FakeResetTokenRepository) DeleteAllExpiredSince(ctx context.Context, now time.Time) (count int64, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Tokens[:0]
	for _, t := range r.Tokens {
		if t.ExpiresAt.After(now) {
			kept = append(kept, t)
		} else {
			count++
		}
	}
	r.Tokens = kept
	return count, nil
}

func (r *FakeResetTokenRepository) TokensForUser(userID ID) []ResetToken {
	r.lock.Lock()
	defer r.lock.Unlock()
	tokens := make([]ResetToken, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		if t.UserID == userID {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

type FakeResetTokenGenerator struct {
	Token ResetTokenValue
}

func NewFakeResetTokenGenerator(token string) *FakeResetTokenGenerator {
	return &FakeResetTokenGenerator{Token: ResetTokenValue(token)}
}

func (g *FakeResetTokenGenerator) GenerateResetToken() ResetTokenValue {
	return g.Token
}

type FakeResetLinkSender struct {
	Sent        []User
	SentTokens  []ResetTokenValue
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetLinkSender() *FakeResetLinkSender {
	return &FakeResetLinkSender{}
}

func (s *FakeResetLinkSender) SendResetLink(ctx context.Context, u User, token ResetTokenValue) error {
	if s.ReturnError {
		return fmt.Errorf("could not send reset link to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, u)
	s.SentTokens = append(s.SentTokens, token)
	return nil
}

func (s *FakeResetLinkSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeResetLinkSender) LastSentTo() User {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

const fakeSessionTokenPrefix = "session-token-for-"

type FakeSessionTokenSigner struct {
	SignErr error
}

func NewFakeSessionTokenSigner() *FakeSessionTokenSigner {
	return &FakeSessionTokenSigner{}
}

func (s *FakeSessionTokenSigner) Sign(userID ID, ttl time.Duration) (SessionToken, error) {
	if s.SignErr != nil {
		return "", s.SignErr
	}
	return SessionToken(fmt.Sprintf("%s%d", fakeSessionTokenPrefix, userID)), nil
}

func (s *FakeSessionTokenSigner) Verify(token SessionToken) (p AuthenticatedPrincipal, err error) {
	if !strings.HasPrefix(string(token), fakeSessionTokenPrefix) {
		return p, ErrSessionTokenMalformed
	}
	rawUserID := strings.TrimPrefix(string(token), fakeSessionTokenPrefix)
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		return p, ErrSessionTokenInvalid
	}
	return NewAuthenticatedPrincipal(ID(userID)), nil
}
