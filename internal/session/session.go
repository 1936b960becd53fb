// Package session holds the authenticated user context shared by every
// component that performs authenticated calls. The bearer token is the only
// piece of state persisted on disk between runs.
package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"SunPortal/entity"
)

type Session struct {
	mu    sync.RWMutex
	token string
	user  *entity.User

	tokenFile string
}

// New creates an empty session backed by the given token file. Pass an
// empty path to keep the session in memory only.
func New(tokenFile string) *Session {
	return &Session{tokenFile: tokenFile}
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the currently authenticated user, nil when logged out.
func (s *Session) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a usable token is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !expired(s.token)
}

// SetAuth stores the login result and persists the token.
func (s *Session) SetAuth(token string, user *entity.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if s.tokenFile == "" {
		return nil
	}
	if err := os.WriteFile(s.tokenFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Clear drops the session and removes the persisted token.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.tokenFile != "" {
		os.Remove(s.tokenFile)
	}
}

// Restore loads a previously persisted token. An expired token on disk is
// treated as logged out and removed.
func (s *Session) Restore() bool {
	if s.tokenFile == "" {
		return false
	}
	data, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return false
	}
	token := strings.TrimSpace(string(data))
	if token == "" || expired(token) {
		os.Remove(s.tokenFile)
		return false
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return true
}

// expired inspects the token's exp claim without verifying the signature.
// Verification belongs to the backend; the client only needs to know
// whether re-login is required before issuing calls.
func expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens carry no expiry the client can read.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
