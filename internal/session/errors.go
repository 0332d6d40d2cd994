package session

import "errors"

var (
	// ErrAuthFailed is returned for any rejected or failed login/register.
	// Wrong credentials and network failures are deliberately not told apart.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrAuthInFlight is returned when login/register is called while
	// another login/register is still outstanding.
	ErrAuthInFlight = errors.New("authentication already in progress")

	ErrNotAuthenticated = errors.New("not authenticated")
)
