package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	"github.com/cetrics/nexdawn-storefront/internal/budget"
	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	"github.com/cetrics/nexdawn-storefront/pkg/storage"
)

func newLedger(t *testing.T, kv storage.KV) *Ledger {
	t.Helper()
	ledger, err := NewLedger(context.Background(), LedgerParams{Storage: kv})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return ledger
}

func TestAddSkipsDuplicatesAndDismissed(t *testing.T) {
	ledger := newLedger(t, storage.NewMemory())
	ctx := context.Background()

	if !ledger.Add(Notification{ID: "a", Message: "first"}) {
		t.Fatal("fresh id should be added")
	}
	if ledger.Add(Notification{ID: "a", Message: "dup"}) {
		t.Fatal("active duplicate should be skipped")
	}

	if err := ledger.Dismiss(ctx, "a"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if ledger.Add(Notification{ID: "a", Message: "back again"}) {
		t.Fatal("dismissed id must not resurface")
	}
	if len(ledger.Active()) != 0 {
		t.Fatalf("active list should be empty, got %v", ledger.Active())
	}
}

func TestDismissalSurvivesRehydration(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	first := newLedger(t, kv)
	first.Add(Notification{ID: "order-9"})
	if err := first.Dismiss(ctx, "order-9"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	// Simulated reload: a fresh ledger rehydrates the dismissed set.
	second := newLedger(t, kv)
	if !second.IsDismissed("order-9") {
		t.Fatal("dismissed set should survive rehydration")
	}
	if second.Add(Notification{ID: "order-9"}) {
		t.Fatal("dismissed id must stay suppressed after reload")
	}
}

func TestClearAllResetsLedgerAndStorage(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	ledger := newLedger(t, kv)
	ledger.Add(Notification{ID: "x"})
	if err := ledger.Dismiss(ctx, "x"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	if err := ledger.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if ledger.IsDismissed("x") {
		t.Fatal("dismissed set should be reset")
	}
	if _, ok, _ := kv.Get(ctx, storage.KeyDismissedNotifications); ok {
		t.Fatal("persisted dismissed set should be deleted")
	}

	// After a clear the id may surface again.
	if !ledger.Add(Notification{ID: "x"}) {
		t.Fatal("cleared id should be addable again")
	}
}

func TestAddGeneratesIDWhenMissing(t *testing.T) {
	ledger := newLedger(t, storage.NewMemory())
	if !ledger.Add(Notification{Message: "no id"}) {
		t.Fatal("expected add to succeed")
	}
	active := ledger.Active()
	if len(active) != 1 || active[0].ID == "" {
		t.Fatalf("expected generated id, got %+v", active)
	}
}

type fakeSources struct {
	budgetsFn  func(ctx context.Context) ([]budget.Entry, error)
	productsFn func(ctx context.Context, search string) ([]catalog.Product, error)
	ordersFn   func(ctx context.Context) ([]adminview.Order, error)
}

func (f *fakeSources) Budgets(ctx context.Context) ([]budget.Entry, error) {
	if f.budgetsFn != nil {
		return f.budgetsFn(ctx)
	}
	return nil, nil
}

func (f *fakeSources) Products(ctx context.Context, search string) ([]catalog.Product, error) {
	if f.productsFn != nil {
		return f.productsFn(ctx, search)
	}
	return nil, nil
}

func (f *fakeSources) Orders(ctx context.Context) ([]adminview.Order, error) {
	if f.ordersFn != nil {
		return f.ordersFn(ctx)
	}
	return nil, nil
}

func TestFeedSurfacesPendingOrders(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t, storage.NewMemory())

	src := &fakeSources{
		ordersFn: func(ctx context.Context) ([]adminview.Order, error) {
			return []adminview.Order{
				{OrderNumber: "ORD-0009", UserEmail: "jo@example.com", Status: "pending"},
				{OrderNumber: "ORD-0010", UserEmail: "al@example.com", Status: "shipped"},
			}, nil
		},
	}
	feed, err := NewFeed(FeedParams{Ledger: ledger, Orders: src})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	added, err := feed.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected one pending-order alert, got %d", added)
	}
	active := ledger.Active()
	if len(active) != 1 || active[0].ID != "order-ORD-0009" {
		t.Fatalf("unexpected active notifications: %+v", active)
	}
}

func TestFeedRefreshSurfacesOverrunsAndLowStock(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	ledger := newLedger(t, kv)

	src := &fakeSources{
		budgetsFn: func(ctx context.Context) ([]budget.Entry, error) {
			return []budget.Entry{
				{ID: 1, Item: "Packaging", Amount: 100, Spent: 150},
				{ID: 2, Item: "Courier", Amount: 100, Spent: 50},
			}, nil
		},
		productsFn: func(ctx context.Context, search string) ([]catalog.Product, error) {
			return []catalog.Product{
				{ID: 7, Name: "Desk Lamp", StockQuantity: 2},
				{ID: 8, Name: "Mesh Chair", StockQuantity: 20},
			}, nil
		},
	}

	feed, err := NewFeed(FeedParams{Ledger: ledger, Budgets: src, Products: src})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	added, err := feed.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 new notifications, got %d", added)
	}

	// A second refresh produces nothing new.
	added, err = feed.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no new notifications, got %d", added)
	}

	// Dismissing the overrun keeps it away on later refreshes.
	if err := ledger.Dismiss(ctx, "budget-1"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if added, _ := feed.Refresh(ctx); added != 0 {
		t.Fatalf("dismissed alert resurfaced, added=%d", added)
	}
}

func TestFeedPropagatesSourceErrors(t *testing.T) {
	ledger := newLedger(t, storage.NewMemory())
	src := &fakeSources{
		budgetsFn: func(ctx context.Context) ([]budget.Entry, error) {
			return nil, errors.New("backend down")
		},
	}
	feed, err := NewFeed(FeedParams{Ledger: ledger, Budgets: src})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	if _, err := feed.Refresh(context.Background()); err == nil {
		t.Fatal("expected source error to propagate")
	}
}
