package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cetrics/nexdawn-storefront/internal/catalog"
)

type fakeQuerier struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]catalog.Product
	block   map[string]chan struct{}
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		results: make(map[string][]catalog.Product),
		block:   make(map[string]chan struct{}),
	}
}

func (f *fakeQuerier) Products(_ context.Context, search string) ([]catalog.Product, error) {
	f.mu.Lock()
	f.calls = append(f.calls, search)
	gate := f.block[search]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[search], nil
}

func (f *fakeQuerier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeQuerier) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func newEngine(t *testing.T, querier Querier, updates chan State) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineParams{
		Querier:  querier,
		Debounce: 30 * time.Millisecond,
		OnUpdate: func(s State) {
			if updates != nil {
				updates <- s
			}
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func waitForUpdate(t *testing.T, updates chan State) State {
	t.Helper()
	select {
	case s := <-updates:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine update")
		return State{}
	}
}

func waitForState(t *testing.T, updates chan State, pred func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-updates:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching engine state")
			return State{}
		}
	}
}

func TestRapidTermsCoalesceIntoOneQuery(t *testing.T) {
	querier := newFakeQuerier()
	querier.results["app"] = []catalog.Product{{ID: 1, Name: "apple watch band"}}
	updates := make(chan State, 4)
	engine := newEngine(t, querier, updates)
	ctx := context.Background()

	engine.SetTerm(ctx, "a")
	engine.SetTerm(ctx, "ap")
	engine.SetTerm(ctx, "app")

	state := waitForState(t, updates, func(s State) bool {
		return s.Term == "app" && !s.IsSearching
	})
	if got := querier.callCount(); got != 1 {
		t.Fatalf("expected exactly one query, got %d", got)
	}
	if querier.lastCall() != "app" {
		t.Fatalf("expected query for final term, got %q", querier.lastCall())
	}
	if len(state.Results) != 1 || !state.ShowSuggestions {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestShortTermShortCircuitsWithoutQuery(t *testing.T) {
	querier := newFakeQuerier()
	updates := make(chan State, 2)
	engine := newEngine(t, querier, updates)

	engine.SetTerm(context.Background(), "a")
	state := waitForUpdate(t, updates)

	if querier.callCount() != 0 {
		t.Fatalf("short term must not hit the network, got %d calls", querier.callCount())
	}
	if len(state.Results) != 0 || state.ShowSuggestions || state.IsSearching {
		t.Fatalf("expected idle empty state, got %+v", state)
	}
}

func TestMinTermLengthCountsRunesNotBytes(t *testing.T) {
	querier := newFakeQuerier()
	updates := make(chan State, 2)
	engine := newEngine(t, querier, updates)

	// One rune, two bytes: still under the two-character minimum.
	engine.SetTerm(context.Background(), "é")
	state := waitForUpdate(t, updates)

	if querier.callCount() != 0 {
		t.Fatalf("single-rune term must not hit the network, got %d calls", querier.callCount())
	}
	if len(state.Results) != 0 || state.ShowSuggestions || state.IsSearching {
		t.Fatalf("expected idle empty state, got %+v", state)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	querier := newFakeQuerier()
	querier.results["shoe"] = []catalog.Product{{ID: 1, Name: "running shoe"}}
	querier.results["shirt"] = []catalog.Product{{ID: 2, Name: "linen shirt"}}
	shoeGate := make(chan struct{})
	querier.block["shoe"] = shoeGate

	updates := make(chan State, 4)
	engine := newEngine(t, querier, updates)
	ctx := context.Background()

	engine.SetTerm(ctx, "shoe")

	// Wait for the shoe query to be in flight before superseding it.
	deadline := time.Now().Add(2 * time.Second)
	for querier.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("shoe query never fired")
		}
		time.Sleep(time.Millisecond)
	}

	engine.SetTerm(ctx, "shirt")
	close(shoeGate)

	state := waitForState(t, updates, func(s State) bool {
		return s.Term == "shirt" && !s.IsSearching
	})
	if state.Term != "shirt" {
		t.Fatalf("unexpected term %q", state.Term)
	}
	if len(state.Results) != 1 || state.Results[0].Name != "linen shirt" {
		t.Fatalf("stale shoe results leaked into state: %+v", state.Results)
	}
}

func TestNoMatchesHidesSuggestions(t *testing.T) {
	querier := newFakeQuerier()
	querier.results["desk"] = []catalog.Product{{ID: 3, Name: "lamp", Description: "warm light"}}
	updates := make(chan State, 2)
	engine := newEngine(t, querier, updates)

	engine.SetTerm(context.Background(), "desk")
	state := waitForUpdate(t, updates)

	// The server returned a product, but it does not substring-match.
	if len(state.Results) != 0 || state.ShowSuggestions {
		t.Fatalf("expected no matches, got %+v", state)
	}
}

func TestClearResetsState(t *testing.T) {
	querier := newFakeQuerier()
	querier.results["lamp"] = []catalog.Product{{ID: 4, Name: "lamp"}}
	updates := make(chan State, 2)
	engine := newEngine(t, querier, updates)

	engine.SetTerm(context.Background(), "lamp")
	waitForUpdate(t, updates)

	engine.Clear()
	state := engine.Snapshot()
	if state.Term != "" || len(state.Results) != 0 || state.ShowSuggestions {
		t.Fatalf("expected cleared state, got %+v", state)
	}
}

func TestCloseStopsPendingQuery(t *testing.T) {
	querier := newFakeQuerier()
	engine := newEngine(t, querier, nil)

	engine.SetTerm(context.Background(), "pending")
	engine.Close()

	time.Sleep(80 * time.Millisecond)
	if querier.callCount() != 0 {
		t.Fatalf("closed engine should not fire queries, got %d", querier.callCount())
	}
}
