package client

import (
	"errors"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// ErrSessionExpired is returned for calls made with a session that has
// expired, was logged out, or was rejected by the server.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Session is the authenticated state returned by Signup and Login.
// It is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	user      models.User
	token     string
	expiresAt time.Time
}

func newSession(user models.User, token string) (*Session, error) {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return nil, errors.New("server returned a malformed token")
	}
	return &Session{
		user:      user,
		token:     token,
		expiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// User returns the account the session belongs to.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ExpiresAt reports when the token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Valid reports whether the session can still authorize requests.
func (s *Session) Valid() bool {
	_, err := s.bearer(time.Now())
	return err == nil
}

func (s *Session) bearer(now time.Time) (string, error) {
	if s == nil {
		return "", ErrSessionExpired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || !now.Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.token, nil
}

func (s *Session) setUser(user models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Session) invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = ""
	s.user = models.User{}
	s.mu.Unlock()
}
