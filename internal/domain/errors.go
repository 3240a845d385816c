package domain

import "errors"

// User / credential errors
var (
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Token errors
var (
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenRevoked  = errors.New("refresh token is revoked")
	ErrTokenExpired  = errors.New("token is expired")
	ErrInvalidToken  = errors.New("token is invalid")
)

// Password reset errors
var (
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)
