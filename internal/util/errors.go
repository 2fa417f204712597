package util

import "errors"

var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrUnauthorized            = errors.New("permission denied")
	ErrCodeGenerationExhausted = errors.New("failed to generate unique course code")
	ErrBusy                    = errors.New("database busy, retry later")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserInactive            = errors.New("user is inactive")
)
