// Package storage defines the key-value port backing all client-local state.
// Every store rewrites its whole key on mutation, so a reload observes the
// latest state regardless of which backend holds it.
package storage

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

// Canonical keys persisted by the client.
const (
	KeyToken                  = "token"
	KeyUser                   = "user"
	KeyCart                   = "cart"
	KeyWishlist               = "wishlist"
	KeyDismissedNotifications = "dismissedNotifications"
)

// KV is the storage port. Values are JSON-encoded strings; Get reports
// presence separately so a missing key can decode to the zero value.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}

// ReadJSON decodes the value stored under key into dest. A missing key leaves
// dest untouched and returns false, mirroring `JSON.parse(...) || fallback`.
func ReadJSON(ctx context.Context, kv KV, key string, dest any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+key)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode "+key)
	}
	return true, nil
}

// WriteJSON encodes value and overwrites key in one synchronous write.
func WriteJSON(ctx context.Context, kv KV, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	if err := kv.Set(ctx, key, string(encoded)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write "+key)
	}
	return nil
}
