package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := NewExternalError("geocode failed", fmt.Errorf("timeout"))
	assert.Equal(t, "EXTERNAL: geocode failed: timeout", err.Error())

	plain := NewValidationError("symptom is required")
	assert.Equal(t, "VALIDATION: symptom is required", plain.Error())
}

func TestIsType_FollowsWrapping(t *testing.T) {
	wrapped := fmt.Errorf("toggle: %w", NewUnauthorizedError("login required"))

	assert.True(t, IsType(wrapped, ErrorTypeUnauthorized))
	assert.False(t, IsType(wrapped, ErrorTypeInternal))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeInternal))
}

func TestAppError_IsMatchesSentinel(t *testing.T) {
	sentinel := NewValidationError("query is empty")
	wrapped := fmt.Errorf("classify: %w", sentinel)

	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.False(t, stderrors.Is(wrapped, NewValidationError("something else")))
}

func TestAppError_UnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("bad minutes")
	err := NewParseError("invalid time", cause)

	assert.ErrorIs(t, err, cause)
}
