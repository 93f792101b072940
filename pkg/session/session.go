// Package session persists the authenticated user's bearer token between
// CLI invocations. The token lifecycle is: set on login, cleared on logout
// or the first unauthorized response.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no saved session exists.
var ErrNoSession = errors.New("no saved session")

// Session holds a saved authentication token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Server    string    `json:"server"`
	Email     string    `json:"email"`
}

// Expired reports whether the session expires within margin. A zero
// ExpiresAt means the server issued no expiry and the session is trusted
// until rejected.
func (s *Session) Expired(margin time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(margin).After(s.ExpiresAt)
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore returns a store at the default location under the user config
// directory.
func NewStore() *Store {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return &Store{path: filepath.Join(dir, "nascloud", "session.json")}
}

// NewStoreAt returns a store at an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Save writes the session with owner-only permissions.
func (st *Store) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0600)
}

// Load reads the saved session, or ErrNoSession if none exists.
func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &s, nil
}

// Clear removes the saved session. Clearing an absent session is not an
// error.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// TokenExpiry extracts the exp claim from a JWT without verifying the
// signature. The server remains the authority on validity; the client only
// uses this to prompt for a fresh login before requests start failing.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return exp.Time, nil
}
