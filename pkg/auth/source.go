package auth

import (
	"context"
	"sync"
	"time"

	"github.com/deeporigin/deeporigin/pkg/auth/status"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// expiryLeeway refreshes tokens slightly before they actually expire
const expiryLeeway = 60 * time.Second

// TokenSource provides access tokens to API clients
type TokenSource interface {
	Token(context.Context) (string, error)
	// Invalidate forces a refresh on the next call to Token, e.g. after the API rejected the token.
	Invalidate()
}

// StaticToken is a TokenSource returning a fixed token
type StaticToken string

// Token returns the static token
func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", status.ErrNotAuthenticated
	}
	return string(s), nil
}

// Invalidate is a no-op
func (StaticToken) Invalidate() {}

// CachedTokenSource serves tokens from a TokenCache, refreshing them with an Authenticator
type CachedTokenSource struct {
	mu     sync.Mutex
	auth   *Authenticator
	cache  *TokenCache
	tokens *Tokens
	stale  bool
	now    func() time.Time
	l      *zap.Logger
}

// NewTokenSource builds a token source over a cache
func NewTokenSource(authenticator *Authenticator, cache *TokenCache) *CachedTokenSource {
	return &CachedTokenSource{
		auth:  authenticator,
		cache: cache,
		now:   time.Now,
		l:     authenticator.l,
	}
}

// Token returns a valid access token
func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens == nil {
		tokens, err := s.cache.Load()
		if err != nil {
			return "", err
		}
		s.tokens = tokens
	}

	if s.stale || s.tokens.Access == "" || expiresBefore(s.tokens.Access, s.now().Add(expiryLeeway)) {
		s.l.Debug("refreshing access token", zap.Bool("invalidated", s.stale))
		tokens, err := s.auth.Refresh(ctx, s.tokens.Refresh)
		if err != nil {
			return "", err
		}
		if err = s.cache.Save(tokens); err != nil {
			s.l.Warn("could not save refreshed tokens", zap.Error(err))
		}
		s.tokens = tokens
		s.stale = false
	}
	return s.tokens.Access, nil
}

// Invalidate the current access token
func (s *CachedTokenSource) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// expiresBefore tells if a JWT access token expires before some deadline.
// Opaque or unparsable tokens are assumed valid: the API will tell otherwise.
func expiresBefore(token string, deadline time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(deadline)
}

// Principal identifies the authenticated user
type Principal struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"exp"`
}

// Authable knows how to retrieve a principal from tokens
type Authable interface {
	Principal(*Tokens) (Principal, error)
}

// JWTPrincipal reads the principal from the claims of the access token, without verifying its signature
type JWTPrincipal struct{}

type principalClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Principal implements Authable
func (JWTPrincipal) Principal(tokens *Tokens) (Principal, error) {
	if tokens == nil || tokens.Access == "" {
		return Principal{}, status.ErrNotAuthenticated
	}
	claims := principalClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokens.Access, &claims); err != nil {
		return Principal{}, status.ErrTokenCache.Wrap(err)
	}
	p := Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
