// Package session persists the teacher's bearer token between invocations.
// It is the CLI analog of the browser cookie the web client kept, scoped to
// the deployment's parent domain so workspaces on pupil subdomains see it too.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/babirusa/teacher-console/pkg/config"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
)

// Store keeps the bearer token on disk and answers workspace addressing
// questions.
type Store struct {
	path         string
	cookieName   string
	parentDomain string
	now          func() time.Time
}

// NewStore builds a Store from session configuration.
func NewStore(cfg config.SessionConfig) *Store {
	return &Store{
		path:         cfg.TokenFile,
		cookieName:   cfg.CookieName,
		parentDomain: strings.TrimPrefix(cfg.ParentDomain, "."),
		now:          time.Now,
	}
}

// CookieName reports the cookie the web deployment uses for the same token.
func (s *Store) CookieName() string { return s.cookieName }

// Save persists the token with owner-only permissions.
func (s *Store) Save(token string) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "refusing to store an empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "prepare session directory")
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write session token")
	}
	return nil
}

// Token returns the stored bearer token. A missing or expired token yields
// the unauthorized sentinel so callers route straight to login instead of
// issuing a request that is guaranteed to bounce.
func (s *Store) Token() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "not logged in")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read session token")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "not logged in")
	}
	if s.expired(token) {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "session expired, log in again")
	}
	return token, nil
}

// Clear forgets the stored token.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "remove session token")
	}
	return nil
}

// WorkspaceURL derives the per-pupil workspace address by subdomain
// convention.
func (s *Store) WorkspaceURL(username string) string {
	return fmt.Sprintf("https://%s.%s", username, s.parentDomain)
}

// expired inspects the JWT exp claim without verifying the signature: the
// signing secret belongs to the authority, and a stale token is discarded
// locally either way. Tokens that do not parse are left for the authority
// to judge.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.now())
}
