package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New("CODE", http.StatusBadRequest, "something failed")
	assert.Equal(t, "something failed", err.Error())

	wrapped := Wrap(stderrors.New("io fault"), "CODE", http.StatusBadRequest, "something failed")
	assert.Equal(t, "something failed: io fault", wrapped.Error())
}

func TestSentinelsSurviveClone(t *testing.T) {
	cloned := Clone(ErrUnauthorized, "session expired, log in again")

	assert.ErrorIs(t, cloned, ErrUnauthorized)
	assert.Equal(t, "session expired, log in again", cloned.Message)
	// The sentinel itself is untouched.
	assert.Equal(t, "authentication required", ErrUnauthorized.Message)
}

func TestSentinelsSurviveWrap(t *testing.T) {
	inner := stderrors.New("exp claim in the past")
	wrapped := Wrap(inner, ErrUnauthorized.Code, ErrUnauthorized.Status, "token expired")

	assert.ErrorIs(t, wrapped, ErrUnauthorized)
	assert.ErrorIs(t, wrapped, inner)
}

func TestSentinelsSurviveFmtWrapping(t *testing.T) {
	err := fmt.Errorf("load pupils: %w", Clone(ErrNotFound, "no such group"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := FromError(Clone(ErrConflict, ""))
	require.NotNil(t, typed)
	assert.Equal(t, ErrConflict.Code, typed.Code)

	plain := FromError(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(Clone(ErrUnauthorized, "not logged in")))
	assert.False(t, IsUnauthorized(ErrForbidden))
	assert.False(t, IsUnauthorized(stderrors.New("boom")))
}
