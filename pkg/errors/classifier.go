package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorClass int

const (
	ClassInternal ErrorClass = iota
	ClassValidation
	ClassAuthentication
	ClassAuthorization
	ClassNotFound
	ClassConflict
	ClassRateLimit
	ClassExternal
)

// ClassifiedError pairs an internal error with the class and sanitized
// code that may be returned to the caller. Internal messages are logged,
// never exposed.
type ClassifiedError struct {
	Class         ErrorClass
	InternalError error
	ReasonCode    string
	OperationName string
}

// ErrorClassifier maps internal errors onto stable, client-safe reason
// codes and HTTP statuses.
type ErrorClassifier struct {
	logger *slog.Logger
}

func NewErrorClassifier(logger *slog.Logger) *ErrorClassifier {
	return &ErrorClassifier{logger: logger}
}

func (ec *ErrorClassifier) Classify(err error, operation string) *ClassifiedError {
	classified := &ClassifiedError{
		InternalError: err,
		OperationName: operation,
	}

	switch {
	case errors.Is(err, ErrNotFound):
		classified.Class = ClassNotFound
		classified.ReasonCode = "not_found"
	case errors.Is(err, ErrInvalidInput):
		classified.Class = ClassValidation
		classified.ReasonCode = "bad_request"
	case errors.Is(err, ErrAuthentication):
		classified.Class = ClassAuthentication
		classified.ReasonCode = "unauthorized"
	case errors.Is(err, ErrAuthorization):
		classified.Class = ClassAuthorization
		classified.ReasonCode = "forbidden"
	case errors.Is(err, ErrRateLimit):
		classified.Class = ClassRateLimit
		classified.ReasonCode = "rate_limited"
	case errors.Is(err, ErrConflict):
		classified.Class = ClassConflict
		classified.ReasonCode = "conflict"
	case errors.Is(err, ErrExternal):
		classified.Class = ClassExternal
		classified.ReasonCode = "internal_error"
	default:
		classified.Class = ClassInternal
		classified.ReasonCode = "internal_error"
	}

	return classified
}

// LogAndStatus logs the internal error with full detail and returns the
// HTTP status and reason code safe to surface to the caller.
func (ec *ErrorClassifier) LogAndStatus(ctx context.Context, classified *ClassifiedError) (int, string) {
	ec.logger.ErrorContext(ctx, "operation failed",
		"operation", classified.OperationName,
		"error_class", int(classified.Class),
		"internal_error", classified.InternalError.Error(),
	)

	return HTTPStatus(classified.Class), classified.ReasonCode
}

// HTTPStatus maps an error class to its HTTP status code.
func HTTPStatus(class ErrorClass) int {
	switch class {
	case ClassNotFound:
		return http.StatusNotFound
	case ClassValidation:
		return http.StatusBadRequest
	case ClassAuthentication:
		return http.StatusUnauthorized
	case ClassAuthorization:
		return http.StatusForbidden
	case ClassRateLimit:
		return http.StatusTooManyRequests
	case ClassConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
