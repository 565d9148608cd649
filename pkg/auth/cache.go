package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deeporigin/deeporigin/pkg/auth/status"
	"github.com/google/renameio/v2"
)

// TokenCache persists tokens in a local file readable only by the user
type TokenCache struct {
	path string
}

// NewTokenCache for the given file
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path of the cache file
func (c *TokenCache) Path() string {
	return c.path
}

// Load cached tokens. A missing cache yields status.ErrNotAuthenticated.
func (c *TokenCache) Load() (*Tokens, error) {
	content, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, status.ErrNotAuthenticated
	}
	if err != nil {
		return nil, status.ErrTokenCache.Wrap(err)
	}
	var tokens Tokens
	if err = json.Unmarshal(content, &tokens); err != nil {
		return nil, status.ErrTokenCache.Wrap(fmt.Errorf("%s: %w", c.path, err))
	}
	if tokens.Access == "" && tokens.Refresh == "" {
		return nil, status.ErrNotAuthenticated
	}
	return &tokens, nil
}

// Save tokens atomically
func (c *TokenCache) Save(tokens *Tokens) error {
	content, err := json.Marshal(tokens)
	if err != nil {
		return status.ErrTokenCache.Wrap(err)
	}
	if err = os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return status.ErrTokenCache.Wrap(err)
	}
	if err = renameio.WriteFile(c.path, content, 0600); err != nil {
		return status.ErrTokenCache.Wrap(err)
	}
	return nil
}

// Clear removes cached tokens
func (c *TokenCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return status.ErrTokenCache.Wrap(err)
	}
	return nil
}
