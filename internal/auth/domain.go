// Package auth handles credential checks, bearer tokens, and role gating.
package auth

import (
	"context"
	"errors"
	"time"
)

// Role is the coarse permission level attached to a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is an account that can sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated principal carried in the request context.
type Identity struct {
	UserID int64
	Role   Role
}

var (
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUnauthorized       = errors.New("Authentication required")
	ErrForbidden          = errors.New("Insufficient permissions")
	ErrUserNotFound       = errors.New("User not found")
)

type identityKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
