package login

import "errors"

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	// Unknown users get the same error as wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned when the account exists but may not log in.
	ErrAccountDisabled = errors.New("user account is disabled")
)
