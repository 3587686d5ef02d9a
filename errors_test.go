package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := map[int]error{
		400: ErrValidation,
		401: ErrUnauthenticated,
		404: ErrNotFound,
		409: ErrServer,
		422: ErrValidation,
		500: ErrServer,
		503: ErrServer,
	}
	for status, want := range tests {
		assert.Equal(t, want, kindForStatus(status), "status %d", status)
	}
}

func TestAPIErrorUnwrapsKindAndCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("journal: list posts: %w", &APIError{Op: "GET /post/get", Kind: ErrNetwork, Err: cause})

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrServer)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "GET /post/get", apiErr.Op)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Op: "GET /post/get/x", Status: 404, Message: "Post not found", Kind: ErrNotFound}
	assert.Equal(t, "GET /post/get/x: status 404: Post not found", err.Error())

	err = &APIError{Op: "GET /site/get", Status: 502, Kind: ErrServer}
	assert.Equal(t, "GET /site/get: status 502: journal: server error", err.Error())
}

func TestValidationErrorsSorted(t *testing.T) {
	err := ValidationErrors{"title": "too short", "category": "required"}
	assert.Equal(t, "journal: category: required; title: too short", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, ValidationErrors{}.orNil())
}

func TestUserMessage(t *testing.T) {
	apiErr := fmt.Errorf("wrapped: %w", &APIError{Op: "POST /auth/login", Status: 401, Message: "Invalid email or password", Kind: ErrAuth})
	assert.Equal(t, "Invalid email or password", UserMessage(apiErr, "Login failed"))

	assert.Equal(t, "a required", UserMessage(ValidationErrors{"b": "b required", "a": "a required"}, "x"))
	assert.Equal(t, "Too many login attempts. Try again later.", UserMessage(ErrLoginThrottled, "x"))
	assert.Equal(t, "Something went wrong", UserMessage(&APIError{Op: "GET /site/get", Kind: ErrNetwork}, "Something went wrong"))
}

func TestValidationKindCoversLocalAndServer(t *testing.T) {
	local := error(ValidationErrors{"title": "too short"})
	server := fmt.Errorf("journal: create post: %w", &APIError{Op: "POST /post/create", Status: 400, Message: "Title required", Kind: kindForStatus(400)})

	assert.ErrorIs(t, local, ErrValidation)
	assert.ErrorIs(t, server, ErrValidation)

	var apiErr *APIError
	assert.False(t, errors.As(local, &apiErr), "local failures never carry a response")
	assert.True(t, errors.As(server, &apiErr))
	var verrs ValidationErrors
	assert.False(t, errors.As(server, &verrs))
}
