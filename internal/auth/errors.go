package auth

import "errors"

var (
	// ErrNotFound reports that no user matches the given identity.
	ErrNotFound = errors.New("auth: user not found")
	// ErrAlreadyExists reports a duplicate registration email.
	ErrAlreadyExists = errors.New("auth: email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers must not be able to tell which one failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken covers malformed, mis-signed, expired and
	// wrong-flavor tokens, and tokens whose subject no longer exists.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrInvalidInput reports a malformed registration request.
	ErrInvalidInput = errors.New("auth: invalid input")
)
