// Package wishlist maintains the client-local saved-for-later list,
// independent of the cart and persisted under its own storage key.
package wishlist

import (
	"context"
	"sync"
	"time"

	"github.com/cetrics/nexdawn-storefront/internal/cart"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

// Item is a product snapshot plus the time it was saved.
type Item struct {
	catalog.Product
	AddedAt time.Time `json:"addedAt"`
}

// StoreParams groups dependencies for the wishlist store.
type StoreParams struct {
	Storage storage.KV
	// Now overrides the clock for AddedAt stamps. Defaults to time.Now.
	Now func() time.Time
}

// Store owns the persisted wishlist. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage storage.KV
	now     func() time.Time
	items   []Item
}

// NewStore rehydrates the wishlist from storage.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{storage: params.Storage, now: now, items: []Item{}}
	if _, err := storage.ReadJSON(ctx, s.storage, storage.KeyWishlist, &s.items); err != nil {
		return nil, err
	}
	if s.items == nil {
		s.items = []Item{}
	}
	return s, nil
}

// Toggle adds the product when absent and removes it when present, so a
// double toggle restores the original state.
func (s *Store) Toggle(ctx context.Context, product catalog.Product) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == product.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return false, s.persistLocked(ctx)
		}
	}
	s.items = append(s.items, Item{Product: product, AddedAt: s.now().UTC()})
	return true, s.persistLocked(ctx)
}

// Remove drops the entry with the given id. No-op when absent.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return s.persistLocked(ctx)
}

// Contains reports wishlist membership for the product id.
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Items returns a copy in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// MoveAllToCart merges every entry into the cart with the usual add
// semantics, then clears the wishlist.
func (s *Store) MoveAllToCart(ctx context.Context, target *cart.Store) error {
	if target == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	s.mu.Lock()
	moved := make([]Item, len(s.items))
	copy(moved, s.items)
	s.mu.Unlock()

	for _, item := range moved {
		if err := target.Add(ctx, item.Product); err != nil {
			return err
		}
	}
	return s.Clear(ctx)
}

// Clear drops every entry and persists the empty list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	return storage.WriteJSON(ctx, s.storage, storage.KeyWishlist, s.items)
}
