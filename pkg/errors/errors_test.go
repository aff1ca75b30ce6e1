package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsPortalError_FindsWrappedTypes(t *testing.T) {
	notFound := NewNotFoundError("team", "42")
	wrapped := fmt.Errorf("loading detail: %w", notFound)

	pe, ok := AsPortalError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, pe.Code)
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestStatusCode_DefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("boom")))
	assert.False(t, IsNotFound(fmt.Errorf("boom")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("invalid sort key", "sort", "bogus")
	assert.Equal(t, "invalid sort key", err.Error())
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, "sort", err.Context["field"])
}

func TestCauseIsUnwrapped(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewCacheError("get failed", "get", "page:x", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get failed: connection refused", err.Error())
}
