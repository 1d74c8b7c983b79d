package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := Validationf("intensity %d out of range", 9)

	assert.True(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("save record: %w", err)
	assert.True(t, Is(wrapped, ErrValidation))
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Unavailable("getAll", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{AlreadyExists("x"), http.StatusConflict},
		{Validation("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Unavailable("op", nil), http.StatusServiceUnavailable},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
