package filekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.Set(ctx, storage.KeyCart, `[{"id":1,"quantity":2}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh store over the same dir sees the persisted value, like a page reload.
	second, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	val, ok, err := second.Get(ctx, storage.KeyCart)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || val != `[{"id":1,"quantity":2}]` {
		t.Fatalf("unexpected value %q (found=%v)", val, ok)
	}
}

func TestMissingKeyReadsAsAbsent(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, ok, err := store.Get(context.Background(), storage.KeyWishlist)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected absent key")
	}
}

func TestDelIsIdempotent(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, storage.KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Del(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		t.Fatalf("del: %v", err)
	}
	if err := store.Del(ctx, storage.KeyToken); err != nil {
		t.Fatalf("second del should not fail: %v", err)
	}
}

func TestNestedStateDirIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "state")
	if _, err := New(dir); err != nil {
		t.Fatalf("new with nested dir: %v", err)
	}
}
