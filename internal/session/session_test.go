package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babirusa/teacher-console/pkg/config"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.SessionConfig{
		TokenFile:    filepath.Join(t.TempDir(), "nested", "token"),
		ParentDomain: "babirusa.space",
		CookieName:   "SKFX-TEACHER-AUTH",
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "alice"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSaveAndToken(t *testing.T) {
	store := newTestStore(t)
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.Save(token))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestSaveRefusesEmptyToken(t *testing.T) {
	store := newTestStore(t)

	err := store.Save("")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSaveRestrictsFilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))

	info, err := os.Stat(store.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Token()
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))
}

func TestExpiredTokenIsUnauthorized(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(-time.Minute))))

	_, err := store.Token()
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))
}

func TestTokenWithoutExpClaimIsAccepted(t *testing.T) {
	store := newTestStore(t)
	token := signedToken(t, time.Time{})
	require.NoError(t, store.Save(token))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestOpaqueTokenIsLeftForTheAuthority(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("not-a-jwt"))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "not-a-jwt", got)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))

	require.NoError(t, store.Clear())

	_, err := store.Token()
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestWorkspaceURL(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, "https://bobby.babirusa.space", store.WorkspaceURL("bobby"))
}

func TestWorkspaceURLTrimsLeadingDot(t *testing.T) {
	store := NewStore(config.SessionConfig{
		TokenFile:    filepath.Join(t.TempDir(), "token"),
		ParentDomain: ".babirusa.space",
	})
	assert.Equal(t, "https://bobby.babirusa.space", store.WorkspaceURL("bobby"))
}

func TestCookieName(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, "SKFX-TEACHER-AUTH", store.CookieName())
}
