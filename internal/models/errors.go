package models

import "errors"

// Domain error taxonomy. Services return these (possibly wrapped); handlers
// match with errors.Is and map them to HTTP statuses.
var (
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrValidation          = errors.New("validation failed")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)
