// Package session holds the admin's opaque API token. The token survives
// restarts in a single file and is wiped the moment the server rejects it;
// expiry is discovered reactively, there is no refresh.
package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"trader-admin-console/internal/logger"
)

// Gate is the single owner of the credential. All request-issuing code
// reads the token through it and reports rejections back to it.
type Gate struct {
	mu    sync.RWMutex
	token string
	path  string
}

// Open loads any previously persisted token from path.
func Open(path string) *Gate {
	g := &Gate{path: path}
	b, err := os.ReadFile(path)
	if err == nil {
		g.token = strings.TrimSpace(string(b))
	}
	return g
}

// Token returns the current credential, empty when unauthenticated.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// Authenticated reports whether a credential is held.
func (g *Gate) Authenticated() bool {
	return g.Token() != ""
}

// BearerHeader returns the Authorization header map for outbound requests,
// or nil when no credential is held.
func (g *Gate) BearerHeader() map[string]string {
	tok := g.Token()
	if tok == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

// Store persists a freshly issued token.
func (g *Gate) Store(ctx context.Context, token string) error {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	if dir := filepath.Dir(g.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if err := os.WriteFile(g.path, []byte(token), 0o600); err != nil {
		logger.Warn(ctx, "Failed to persist session token", "error", err)
		return err
	}
	return nil
}

// Clear tears the session down: the in-memory token is zeroed and the
// persisted copy removed. Called on logout and on any 401/403.
func (g *Gate) Clear(ctx context.Context) {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()

	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		logger.Warn(ctx, "Failed to remove session token file", "error", err)
	}
}
