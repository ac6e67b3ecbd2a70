// Package notifications keeps the active notification list in memory and the
// dismissed-id set in storage, so an acknowledged notification never comes
// back across reloads until the ledger is explicitly cleared.
package notifications

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

// Notification is one entry in the active feed. Only the id is persisted,
// and only once dismissed.
type Notification struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// LedgerParams groups dependencies for the ledger.
type LedgerParams struct {
	Storage storage.KV
}

// Ledger tracks active notifications and the persisted dismissed set.
type Ledger struct {
	mu        sync.Mutex
	storage   storage.KV
	active    []Notification
	dismissed map[string]struct{}
}

// NewLedger rehydrates the dismissed set; the active list always starts empty.
func NewLedger(ctx context.Context, params LedgerParams) (*Ledger, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	l := &Ledger{
		storage:   params.Storage,
		dismissed: make(map[string]struct{}),
	}
	var ids []string
	if _, err := storage.ReadJSON(ctx, l.storage, storage.KeyDismissedNotifications, &ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		l.dismissed[id] = struct{}{}
	}
	return l, nil
}

// Add appends the notification unless its id was dismissed or is already
// active. An empty id gets a generated one. Reports whether it was added.
func (l *Ledger) Add(n Notification) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		n.ID = uuid.NewString()
	}
	if _, gone := l.dismissed[n.ID]; gone {
		return false
	}
	for _, existing := range l.active {
		if existing.ID == n.ID {
			return false
		}
	}
	l.active = append(l.active, n)
	return true
}

// Dismiss removes the id from the active list and records it in the
// persisted dismissed set.
func (l *Ledger) Dismiss(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.active[:0]
	for _, n := range l.active {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	l.active = kept
	l.dismissed[id] = struct{}{}
	return l.persistDismissedLocked(ctx)
}

// ClearAll empties the active list and the dismissed set, deleting the
// persisted entry.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.active = nil
	l.dismissed = make(map[string]struct{})
	return l.storage.Del(ctx, storage.KeyDismissedNotifications)
}

// Active returns a copy of the visible notifications in arrival order.
func (l *Ledger) Active() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.active))
	copy(out, l.active)
	return out
}

// IsDismissed reports whether the id sits in the dismissed set.
func (l *Ledger) IsDismissed(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.dismissed[id]
	return ok
}

func (l *Ledger) persistDismissedLocked(ctx context.Context) error {
	ids := make([]string, 0, len(l.dismissed))
	for id := range l.dismissed {
		ids = append(ids, id)
	}
	return storage.WriteJSON(ctx, l.storage, storage.KeyDismissedNotifications, ids)
}
