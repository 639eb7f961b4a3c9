// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorInvalidInput    = errors.New("invalid input")
	ErrorUnauthenticated = errors.New("missing user")

	// OTP challenge errors.
	ErrNoActiveChallenge = errors.New("no active code")
	ErrChallengeExpired  = errors.New("code expired")
	ErrInvalidCode       = errors.New("invalid code")

	// Delivery errors.
	ErrDeliveryFailed = errors.New("failed to send email")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
