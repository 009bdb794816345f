package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{BadRequest("bad", nil), http.StatusBadRequest},
		{NotFound("medication", nil), http.StatusNotFound},
		{Conflict("username taken", nil), http.StatusConflict},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPStatus(), tc.err.Kind.String())
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("failed to get medication: %w", NotFound("medication", nil))

	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
	assert.False(t, Is(stderrors.New("plain"), KindNotFound))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "medication not found", appErr.Message)
}

func TestError_IncludesCause(t *testing.T) {
	err := Internal(stderrors.New("connection refused"))
	assert.Equal(t, "internal server error: connection refused", err.Error())
	assert.Equal(t, "dose schedule not found", NotFound("dose schedule", nil).Error())
}
