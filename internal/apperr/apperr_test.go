package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := Validation("entry fee must be greater than zero")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("create room: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, "entry fee must be greater than zero", Message(wrapped))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrRegistrationFailed.Wrap(cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrRegistrationFailed))
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Nil(t, ErrRegistrationFailed.Err)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		ErrValidation:         http.StatusBadRequest,
		NotFound("room"):      http.StatusNotFound,
		ErrRoomFull:           http.StatusConflict,
		ErrAuthRequired:       http.StatusUnauthorized,
		ErrRegistrationFailed: http.StatusInternalServerError,
		ErrInvalidTransition:  http.StatusConflict,
		ErrRateLimited:        http.StatusTooManyRequests,
		errors.New("boom"):    http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}

func TestMessage_Internal(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("sql: connection refused")))
	assert.Equal(t, "room not found", Message(NotFound("room")))
}
