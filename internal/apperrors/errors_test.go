package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultTranslation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       int
		httpStatus int
	}{
		{"user not found", ErrUserNotFound, CodeUserNotFound, http.StatusNotFound},
		{"role not found", ErrRoleNotFound, CodeRoleNotFound, http.StatusNotFound},
		{"user already exists", ErrUserAlreadyExists, CodeUserAlreadyExists, http.StatusBadRequest},
		{"validation failed", ErrValidationFailed, CodeValidationFailed, http.StatusBadRequest},
		{"password mismatch", ErrPasswordMismatch, CodePasswordMismatch, http.StatusBadRequest},
		{"wrong password", ErrWrongPassword, CodeWrongPassword, http.StatusUnauthorized},
		{"invalid client request", ErrInvalidClientRequest, CodeInvalidClientRequest, http.StatusUnauthorized},
		{"token expired", ErrTokenExpired, CodeInvalidClientRequest, http.StatusUnauthorized},
		{"token signature invalid", ErrTokenSignatureInvalid, CodeInvalidClientRequest, http.StatusUnauthorized},
		{"issuer or audience mismatch", ErrTokenIssuerOrAudience, CodeInvalidClientRequest, http.StatusUnauthorized},
		{"unclassified", errors.New("db gone"), CodeInternalServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Code(tt.err))
			assert.Equal(t, tt.httpStatus, HTTPStatus(tt.err))
		})
	}
}

func TestFaultTranslation_wrapped(t *testing.T) {
	err := fmt.Errorf("refresh flow: %w", ErrInvalidClientRequest)

	assert.Equal(t, CodeInvalidClientRequest, Code(err), "wrapped faults should keep their code")
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
	assert.Equal(t, "Invalid client request", Message(err))
}

func TestMessage_neverLeaksDetail(t *testing.T) {
	err := errors.New("pq: password authentication failed for user postgres")

	msg := Message(err)

	assert.Equal(t, "An error occurred while processing your request", msg)
	assert.NotContains(t, msg, "postgres", "internal detail must not leak to the client")
}
