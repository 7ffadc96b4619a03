package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(NotFoundf("gone")))
	assert.Equal(t, Conflict, KindOf(Conflictf("taken")))
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
	assert.Equal(t, Internal, KindOf(nil))

	// Wrapped errors still expose their kind.
	wrapped := fmt.Errorf("outer: %w", Forbiddenf("no"))
	assert.Equal(t, Forbidden, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		NotFound:     http.StatusNotFound,
		Forbidden:    http.StatusForbidden,
		BadRequest:   http.StatusBadRequest,
		Unauthorized: http.StatusUnauthorized,
		Conflict:     http.StatusConflict,
		Internal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("token expired")
	err := Wrap(Unauthorized, cause, "invalid token")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid token")
	assert.Contains(t, err.Error(), "token expired")
}
