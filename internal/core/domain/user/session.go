package user

import "time"

type SessionToken string

// SessionTokenSigner issues and verifies stateless signed session tokens.
// There is no server-side revocation, expiry is the only invalidation
// mechanism.
type SessionTokenSigner interface {
	// Sign produces a compact token carrying the user id and an absolute
	// expiry of now + ttl.
	Sign(userID ID, ttl time.Duration) (SessionToken, error)
	// Verify checks encoding, signature and expiry. It fails with
	// ErrSessionTokenMalformed for broken encodings, ErrSessionTokenExpired
	// for expired tokens and ErrSessionTokenInvalid for everything else,
	// signature tampering included.
	Verify(token SessionToken) (AuthenticatedPrincipal, error)
}
