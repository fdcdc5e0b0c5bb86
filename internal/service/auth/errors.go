// Package auth validates the bearer tokens that identify users.
// Token issuance lives in a separate identity service; this package
// only needs to verify a token and extract the user ID that keys all
// mastery state.
package auth

import "errors"

var (
	// ErrInvalidToken is returned when a token is malformed, carries a
	// bad signature, or fails validation for any reason other than the
	// specific cases below.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's nbf/iat lies in
	// the future beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("token not yet valid")
)
