package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func newGuard(t *testing.T, kv storage.KV, onExpired func()) *Guard {
	t.Helper()
	guard, err := NewGuard(context.Background(), GuardParams{Store: kv, OnExpired: onExpired})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return guard
}

func TestSetSessionPersistsAcrossRehydration(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	guard := newGuard(t, kv, nil)
	token := signedToken(t, time.Now().Add(time.Hour))
	if err := guard.SetSession(ctx, token, User{ID: 3, Email: "ops@nexdawn.test", UserType: "admin"}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	// A second guard over the same store plays the role of a page reload.
	reloaded := newGuard(t, kv, nil)
	if reloaded.Token() != token {
		t.Fatalf("token not rehydrated")
	}
	user, ok := reloaded.User()
	if !ok || user.Email != "ops@nexdawn.test" {
		t.Fatalf("user not rehydrated: %+v", user)
	}
	if !reloaded.IsAdmin() {
		t.Fatal("expected admin user")
	}
	if !reloaded.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
}

func TestExpiredTokenReportsUnauthenticated(t *testing.T) {
	kv := storage.NewMemory()
	guard := newGuard(t, kv, nil)
	if err := guard.SetSession(context.Background(), signedToken(t, time.Now().Add(-time.Minute)), User{}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if guard.IsAuthenticated() {
		t.Fatal("expired token should report unauthenticated")
	}
}

func TestOpaqueTokenIsTrusted(t *testing.T) {
	kv := storage.NewMemory()
	guard := newGuard(t, kv, nil)
	if err := guard.SetSession(context.Background(), "not-a-jwt", User{}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if !guard.IsAuthenticated() {
		t.Fatal("opaque tokens are trusted until the server rejects them")
	}
}

func TestHandleUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	fired := 0
	guard := newGuard(t, kv, func() { fired++ })
	if err := guard.SetSession(ctx, signedToken(t, time.Now().Add(time.Hour)), User{UserType: "customer"}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	if err := guard.HandleUnauthorized(ctx); err != nil {
		t.Fatalf("handle unauthorized: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected hook to fire once, fired %d", fired)
	}
	if guard.Token() != "" {
		t.Fatal("token should be cleared")
	}
	if _, ok := guard.User(); ok {
		t.Fatal("user should be cleared")
	}

	var leftover string
	found, err := storage.ReadJSON(ctx, kv, storage.KeyToken, &leftover)
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if found {
		t.Fatal("token key should be deleted from storage")
	}
}

func TestNewGuardRequiresStore(t *testing.T) {
	if _, err := NewGuard(context.Background(), GuardParams{}); err == nil {
		t.Fatal("expected error for missing store")
	}
}
