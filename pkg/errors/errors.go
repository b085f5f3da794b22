package errors

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("authorization failed")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrConflict       = errors.New("resource conflict")
	ErrExternal       = errors.New("external service error")
)
