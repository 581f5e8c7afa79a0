// Package pagination keeps the state of a paginated list view.
//
// A Pager loads pages through a Fetcher and holds the last loaded items with
// the current page, page size and total. Only the most recent load is ever
// applied: a load that completes after a newer one started, or after Close,
// is discarded.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/etnz/profiles/api"
)

// ErrStale is returned by a load whose result was discarded.
var ErrStale = errors.New("page load superseded")

// LoadFailedMsg is reported when a failed load says nothing.
const LoadFailedMsg = "failed to load list"

// State is the pagination state of a list.
type State struct {
	Current  int `json:"current"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Params are the parameters given to a Fetcher.
type Params struct {
	Page    int
	Size    int
	Filters map[string]string
}

// Fetcher loads one page.
type Fetcher[T any] func(ctx context.Context, p Params) (api.Page[T], error)

// Reporter is told about failed loads.
type Reporter interface {
	Error(err error, fallback string)
}

// Option configures a Pager.
type Option func(*options)

type options struct {
	reporter Reporter
}

// WithReporter sets who is told about failed loads.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// Pager is the state of a paginated list. It is safe for concurrent use.
type Pager[T any] struct {
	fetch           Fetcher[T]
	initialPageSize int
	reporter        Reporter

	mu      sync.Mutex
	state   State
	filters map[string]string
	data    []T
	gen     uint64 // incremented by every load and by Close
	loading bool
	closed  bool
}

// New returns an empty pager starting at initialPage with initialPageSize
// items per page.
func New[T any](fetch Fetcher[T], initialPage, initialPageSize int, opts ...Option) *Pager[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if initialPage <= 0 {
		initialPage = 1
	}
	if initialPageSize <= 0 {
		initialPageSize = 10
	}
	return &Pager[T]{
		fetch:           fetch,
		initialPageSize: initialPageSize,
		reporter:        o.reporter,
		state:           State{Current: initialPage, PageSize: initialPageSize},
	}
}

// Mount loads the current page with the last filters.
func (p *Pager[T]) Mount(ctx context.Context) error {
	p.mu.Lock()
	s, f := p.state, p.filters
	p.mu.Unlock()
	return p.Load(ctx, s, f)
}

// Load fetches the page s.Current of s.PageSize items. A zero page is the
// first one and a zero size is the initial page size.
//
// On success the items, total, current page and page size are replaced
// together. On failure the error is reported and the previous items kept.
func (p *Pager[T]) Load(ctx context.Context, s State, filters map[string]string) error {
	page, size := s.Current, s.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = p.initialPageSize
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrStale
	}
	p.gen++
	gen := p.gen
	p.loading = true
	p.filters = maps.Clone(filters)
	p.mu.Unlock()

	res, err := p.fetch(ctx, Params{Page: page, Size: size, Filters: maps.Clone(filters)})

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return ErrStale
	}
	p.loading = false
	if err == nil {
		p.data = res.Items
		p.state = State{Current: page, PageSize: size, Total: res.Total}
	}
	p.mu.Unlock()

	if err != nil {
		if p.reporter != nil {
			p.reporter.Error(err, LoadFailedMsg)
		}
		return fmt.Errorf("cannot load page %d: %w", page, err)
	}
	return nil
}

// Close discards any load in flight and every later one.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.loading = false
	p.gen++
}

// Data returns the items of the last successful load.
func (p *Pager[T]) Data() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.data...)
}

// State returns the page, page size and total of the last successful load,
// or the initial state before any.
func (p *Pager[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Loading reports whether a load is in flight.
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// ShowTotal describes the range of items shown, like "11-20 of 42".
func (p *Pager[T]) ShowTotal() string {
	return ShowTotal(p.State())
}

// ShowTotal describes the range of items of s.
func ShowTotal(s State) string {
	if s.Total <= 0 {
		return "0-0 of 0"
	}
	from := (s.Current-1)*s.PageSize + 1
	to := min(s.Current*s.PageSize, s.Total)
	if from > to {
		from = to
	}
	return fmt.Sprintf("%d-%d of %d", from, to, s.Total)
}
