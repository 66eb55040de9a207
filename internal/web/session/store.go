// Package session issues and validates signed session tokens for the
// admin area.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "anm_session"

const issuer = "adminnotices"

// Session is an authenticated admin session. ID is the signed token stored
// in the cookie.
type Session struct {
	ID        string
	UserID    string
	Username  string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"usr"`
	Role     string `json:"role"`
}

// Store signs sessions as HS256 JWTs. Sessions need no server-side state
// except for the revocation list kept until each revoked token expires.
type Store struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

// NewStore creates a session store signing with secret.
func NewStore(secret []byte, ttl time.Duration) *Store {
	return &Store{
		secret:  secret,
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}
}

// Create issues a session with the store's default TTL.
func (s *Store) Create(userID, username, role string) (*Session, error) {
	return s.CreateWithTTL(userID, username, role, s.ttl)
}

// CreateWithTTL issues a session valid for ttl.
func (s *Store) CreateWithTTL(userID, username, role string, ttl time.Duration) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
		Role:     role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &Session{
		ID:        token,
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

// Get validates a session token.
func (s *Store) Get(id string) (*Session, bool) {
	c, err := s.parse(id)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	_, revoked := s.revoked[c.ID]
	s.mu.Unlock()
	if revoked {
		return nil, false
	}

	return &Session{
		ID:        id,
		UserID:    c.Subject,
		Username:  c.Username,
		Role:      c.Role,
		CreatedAt: c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, true
}

// Delete revokes a session token. Invalid tokens are ignored.
func (s *Store) Delete(id string) {
	c, err := s.parse(id)
	if err != nil {
		return
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[c.ID] = c.ExpiresAt.Time
}

func (s *Store) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return c, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return nil
}
