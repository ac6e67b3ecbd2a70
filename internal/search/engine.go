// Package search debounces product lookups and guards against out-of-order
// responses: each fired query carries the generation current at fire time,
// and a completion is applied only while its generation is still current.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
)

const (
	// DefaultDebounce mirrors the storefront's 300ms suggestion delay.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultMinTermLength short-circuits one-character terms.
	DefaultMinTermLength = 2
)

// Querier issues the product lookup behind a suggestion query.
type Querier interface {
	Products(ctx context.Context, search string) ([]catalog.Product, error)
}

// State is a point-in-time view of the engine.
type State struct {
	Term            string
	Results         []catalog.Product
	ShowSuggestions bool
	IsSearching     bool
}

// EngineParams groups dependencies for the search engine.
type EngineParams struct {
	Querier       Querier
	Debounce      time.Duration
	MinTermLength int
	Logger        *logger.Logger
	// OnUpdate fires after each state change caused by a completed or
	// discarded query. Optional.
	OnUpdate func(State)
}

// Engine holds the current term and the last completed query's results.
type Engine struct {
	mu       sync.Mutex
	querier  Querier
	debounce time.Duration
	minLen   int
	logg     *logger.Logger
	onUpdate func(State)

	term       string
	generation uint64
	timer      *time.Timer
	results    []catalog.Product
	show       bool
	searching  bool
	closed     bool
}

// NewEngine builds the engine with defaults applied.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Querier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "querier is required")
	}
	debounce := params.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	minLen := params.MinTermLength
	if minLen <= 0 {
		minLen = DefaultMinTermLength
	}
	return &Engine{
		querier:  params.Querier,
		debounce: debounce,
		minLen:   minLen,
		logg:     params.Logger,
		onUpdate: params.OnUpdate,
	}, nil
}

// SetTerm replaces the current term and restarts the debounce window. Only
// the most recent timer fires a query; short terms resolve immediately to
// empty, hidden suggestions without touching the network.
func (e *Engine) SetTerm(ctx context.Context, term string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.term = term
	e.generation++
	gen := e.generation
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(term)) < e.minLen {
		e.results = nil
		e.show = false
		e.searching = false
		state := e.stateLocked()
		e.mu.Unlock()
		e.notify(state)
		return
	}

	e.timer = time.AfterFunc(e.debounce, func() {
		e.fire(ctx, gen, term)
	})
	e.mu.Unlock()
}

func (e *Engine) fire(ctx context.Context, gen uint64, term string) {
	e.mu.Lock()
	if e.closed || gen != e.generation {
		e.mu.Unlock()
		return
	}
	e.searching = true
	e.mu.Unlock()

	products, err := e.querier.Products(ctx, term)

	e.mu.Lock()
	if e.closed || gen != e.generation {
		// A newer term superseded this query; its results must not land.
		e.mu.Unlock()
		return
	}
	if err != nil {
		if e.logg != nil {
			e.logg.Error(ctx, "search query failed", err)
		}
		e.results = nil
		e.show = false
		e.searching = false
		state := e.stateLocked()
		e.mu.Unlock()
		e.notify(state)
		return
	}

	matches := make([]catalog.Product, 0, len(products))
	for _, product := range products {
		if product.MatchesQuery(term) {
			matches = append(matches, product)
		}
	}
	e.results = matches
	e.show = len(matches) > 0
	e.searching = false
	state := e.stateLocked()
	e.mu.Unlock()
	e.notify(state)
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// HideSuggestions collapses the suggestion list without clearing results.
func (e *Engine) HideSuggestions() {
	e.mu.Lock()
	e.show = false
	e.mu.Unlock()
}

// Clear resets the term, results, and suggestion visibility.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.term = ""
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.results = nil
	e.show = false
	e.searching = false
	e.mu.Unlock()
}

// Close stops any pending timer and rejects further work.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
}

func (e *Engine) stateLocked() State {
	results := make([]catalog.Product, len(e.results))
	copy(results, e.results)
	return State{
		Term:            e.term,
		Results:         results,
		ShowSuggestions: e.show,
		IsSearching:     e.searching,
	}
}

func (e *Engine) notify(state State) {
	if e.onUpdate != nil {
		e.onUpdate(state)
	}
}
