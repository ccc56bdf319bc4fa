package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("x", nil).Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x", nil).Status)
	assert.Equal(t, http.StatusNotFound, NotFound("Chat", nil).Status)
	assert.Equal(t, http.StatusBadRequest, InvalidRequest("x", nil).Status)
	assert.Equal(t, http.StatusInternalServerError, Internal("x", nil).Status)
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")

	appErr := From(cause)
	assert.Equal(t, CodeServerError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, cause)

	// Already-typed errors pass through untouched.
	forbidden := Forbidden("not a participant", nil)
	assert.Same(t, forbidden, From(forbidden))
}

func TestIs(t *testing.T) {
	err := NotFound("Chat", nil)
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeForbidden))
	assert.False(t, Is(errors.New("plain"), CodeNotFound))
}
