// Package auth authenticates managers and drivers and carries their session
// through the request context.
package auth

import (
	"context"
	"errors"
)

var (
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnsupportedUser = errors.New("unsupported user type")
	ErrNoSession       = errors.New("no session")
	ErrSessionRevoked  = errors.New("session revoked")
)

// User is an account that can log in.
type User interface {
	GetID() uint
	GetUsername() string
	GetPassword() string
	GetRoles() []string
}

// UserProvider loads accounts by their unique email.
// It returns ErrUserNotFound when no account matches.
type UserProvider interface {
	LoadUserByEmail(ctx context.Context, email string) (User, error)
}

// PasswordUpgrader stores a rehashed password. Implementations reject user
// types they do not own with ErrUnsupportedUser.
type PasswordUpgrader interface {
	UpgradePassword(ctx context.Context, user User, newHash string) error
}
