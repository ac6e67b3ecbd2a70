// Package session guards the client's bearer token and user record. Both live
// under the storage port so a fresh process rehydrates the same session, and
// any 401 from the API tears the session down.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

// User is the persisted user record; user_type gates the admin console.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// GuardParams groups dependencies for the session guard.
type GuardParams struct {
	Store storage.KV
	// OnExpired fires after a teardown triggered by an unauthorized
	// response, typically wired to a redirect back to login.
	OnExpired func()
	// Now overrides the clock for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

// Guard owns the token/user pair. Safe for concurrent use.
type Guard struct {
	mu        sync.RWMutex
	store     storage.KV
	onExpired func()
	now       func() time.Time

	token string
	user  *User
}

// NewGuard rehydrates any persisted session from the store.
func NewGuard(ctx context.Context, params GuardParams) (*Guard, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	g := &Guard{
		store:     params.Store,
		onExpired: params.OnExpired,
		now:       now,
	}

	var token string
	if _, err := storage.ReadJSON(ctx, g.store, storage.KeyToken, &token); err != nil {
		return nil, err
	}
	var user User
	found, err := storage.ReadJSON(ctx, g.store, storage.KeyUser, &user)
	if err != nil {
		return nil, err
	}
	g.token = token
	if found {
		g.user = &user
	}
	return g, nil
}

// SetSession persists the token and user record after a successful login.
func (g *Guard) SetSession(ctx context.Context, token string, user User) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if err := storage.WriteJSON(ctx, g.store, storage.KeyToken, token); err != nil {
		return err
	}
	if err := storage.WriteJSON(ctx, g.store, storage.KeyUser, user); err != nil {
		return err
	}
	g.mu.Lock()
	g.token = token
	g.user = &user
	g.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when unauthenticated.
func (g *Guard) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// User returns the persisted user record, if any.
func (g *Guard) User() (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return User{}, false
	}
	return *g.user, true
}

// IsAuthenticated reports whether a non-expired token is held. The token is
// parsed unverified; the client has no signing key, and the server remains
// the authority via 401 responses.
func (g *Guard) IsAuthenticated() bool {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are trusted until the server says otherwise.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(g.now())
}

// IsAdmin reports whether the persisted user is an administrator.
func (g *Guard) IsAdmin() bool {
	user, ok := g.User()
	return ok && strings.EqualFold(user.UserType, "admin")
}

// Clear removes the session from memory and storage.
func (g *Guard) Clear(ctx context.Context) error {
	g.mu.Lock()
	g.token = ""
	g.user = nil
	g.mu.Unlock()
	return g.store.Del(ctx, storage.KeyToken, storage.KeyUser)
}

// HandleUnauthorized tears the session down and fires the expiry hook.
// Called by the API client on any 401 response.
func (g *Guard) HandleUnauthorized(ctx context.Context) error {
	err := g.Clear(ctx)
	if g.onExpired != nil {
		g.onExpired()
	}
	return err
}
