// Package cart maintains the client-local cart: denormalized product
// snapshots with quantities, rewritten to storage on every mutation.
package cart

import (
	"context"
	"sync"

	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

// Item is a product snapshot plus the queued quantity. Unique by product id.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// StoreParams groups dependencies for the cart store.
type StoreParams struct {
	Storage storage.KV
}

// Store owns the persisted cart list. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage storage.KV
	items   []Item
}

// NewStore rehydrates the cart from storage.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	s := &Store{storage: params.Storage, items: []Item{}}
	if _, err := storage.ReadJSON(ctx, s.storage, storage.KeyCart, &s.items); err != nil {
		return nil, err
	}
	if s.items == nil {
		s.items = []Item{}
	}
	return s, nil
}

// Add merges the product into the cart: an existing id increments its
// quantity, a new id appends with quantity 1.
func (s *Store) Add(ctx context.Context, product catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, Item{Product: product, Quantity: 1})
	}
	return s.persistLocked(ctx)
}

// Remove drops the entry with the given id, leaving the rest untouched.
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

// SetQuantity pins the quantity for an id; values below 1 remove the entry.
func (s *Store) SetQuantity(ctx context.Context, id, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return s.persistLocked(ctx)
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

// Clear drops every entry and persists the empty list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	return s.persistLocked(ctx)
}

// Items returns a copy of the current cart in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the total quantity across entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums discounted line totals.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.EffectivePrice() * float64(item.Quantity)
	}
	return total
}

func (s *Store) persistLocked(ctx context.Context) error {
	return storage.WriteJSON(ctx, s.storage, storage.KeyCart, s.items)
}
