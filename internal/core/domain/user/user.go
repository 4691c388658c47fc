package user

import (
	"fmt"
	c "vitalance/internal/core/domain/common"
	e "vitalance/internal/core/domain/errors"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	return nil
}

type Role string

const RoleUser Role = "user"

// AuthenticatedPrincipal is the concrete identity produced by session token
// verification. It is a plain value, there is no pluggable principal lookup.
type AuthenticatedPrincipal struct {
	UserID ID
	Roles  []Role
}

func NewAuthenticatedPrincipal(userID ID) AuthenticatedPrincipal {
	return AuthenticatedPrincipal{UserID: userID, Roles: []Role{RoleUser}}
}
