package sessiontoken

import (
	"errors"
	"strconv"
	"time"
	"vitalance/internal/core/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer issues stateless session tokens signed with a process-wide
// secret. The secret is loaded once at startup and never rotated or mutated,
// so concurrent use needs no synchronization.
type HS256Signer struct {
	secret []byte
	now    func() time.Time
}

func NewHS256Signer(secret string, now func() time.Time) *HS256Signer {
	return &HS256Signer{secret: []byte(secret), now: now}
}

func (s *HS256Signer) Sign(userID user.ID, ttl time.Duration) (user.SessionToken, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(int64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return user.SessionToken(signed), nil
}

func (s *HS256Signer) Verify(token user.SessionToken) (p user.AuthenticatedPrincipal, err error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return p, normalizeError(err)
	}
	if !parsed.Valid {
		return p, user.ErrSessionTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return p, user.ErrSessionTokenInvalid
	}
	return user.NewAuthenticatedPrincipal(user.ID(userID)), nil
}

// normalizeError keeps the caller-visible taxonomy narrow: malformed
// encoding, expired, or invalid. Signature tampering is deliberately
// indistinguishable from any other invalid token.
func normalizeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return user.ErrSessionTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return user.ErrSessionTokenExpired
	default:
		return user.ErrSessionTokenInvalid
	}
}
