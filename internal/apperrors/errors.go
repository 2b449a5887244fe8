package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleNotFound      = errors.New("role not found")

	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWrongPassword    = errors.New("wrong password")

	// Generic refresh flow error
	// It hides which exact check failed (token lookup, match or expiry)
	// so the flow can't be used to enumerate accounts or replay tokens
	ErrInvalidClientRequest = errors.New("invalid client request")

	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenIssuerOrAudience = errors.New("token issuer or audience mismatch")
)

// Stable error codes, part of the API contract. Never renumber.
const (
	CodeInternalServerError  = 10
	CodeUserNotFound         = 11
	CodeUserAlreadyExists    = 12
	CodeValidationFailed     = 20
	CodePasswordMismatch     = 21
	CodeWrongPassword        = 22
	CodeRoleNotFound         = 31
	CodeInvalidClientRequest = 41
)

// Code returns the stable numeric code for a known fault
// or CodeInternalServerError for anything unclassified.
func Code(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return CodeUserAlreadyExists
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed
	case errors.Is(err, ErrPasswordMismatch):
		return CodePasswordMismatch
	case errors.Is(err, ErrWrongPassword):
		return CodeWrongPassword
	case errors.Is(err, ErrRoleNotFound):
		return CodeRoleNotFound
	case errors.Is(err, ErrInvalidClientRequest),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenSignatureInvalid),
		errors.Is(err, ErrTokenIssuerOrAudience):
		return CodeInvalidClientRequest
	default:
		return CodeInternalServerError
	}
}

// HTTPStatus maps a fault to its HTTP status class:
// not found -> 404, bad input -> 400, credential or token faults -> 401,
// anything unclassified -> 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrInvalidClientRequest),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenSignatureInvalid),
		errors.Is(err, ErrTokenIssuerOrAudience):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the public message for a fault.
// Unclassified errors get a generic message, their detail must never
// reach the client and should be logged instead.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrUserAlreadyExists):
		return "User already exists"
	case errors.Is(err, ErrValidationFailed):
		return "Validation failed"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrWrongPassword):
		return "Wrong password"
	case errors.Is(err, ErrRoleNotFound):
		return "Role not found"
	case errors.Is(err, ErrInvalidClientRequest),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenSignatureInvalid),
		errors.Is(err, ErrTokenIssuerOrAudience):
		return "Invalid client request"
	default:
		return "An error occurred while processing your request"
	}
}
