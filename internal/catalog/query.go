package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

// Browse defaults. The price bounds double as the "no price filter" sentinel:
// a range equal to [PriceFloor, PriceCeiling] travels as null.
const (
	DefaultPageSize = 12
)

var (
	PriceFloor   = decimal.NewFromInt(0)
	PriceCeiling = decimal.NewFromInt(10000)

	defaultSort = backend.SortSpec{Field: backend.SortFieldDate, Direction: backend.SortDesc}
)

// FilterState is the canonical browse state. Everything the product grid
// renders derives from one of these plus the last fetched page.
type FilterState struct {
	Text       string
	Categories []string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
	Sort       backend.SortSpec
	Page       int
	PageSize   int
}

func DefaultFilterState() FilterState {
	return FilterState{
		PriceMin: PriceFloor,
		PriceMax: PriceCeiling,
		Sort:     defaultSort,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Request converts the state to the wire filter body. Empty text, empty
// category selection and the full price range all travel as null.
func (s FilterState) Request() backend.FilterRequest {
	req := backend.FilterRequest{
		SortBy:   s.Sort,
		Page:     s.Page,
		PageSize: s.PageSize,
	}
	if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
		req.TextFilter = &trimmed
	}
	if len(s.Categories) > 0 {
		req.CategoryFilter = s.Categories
	}
	if !s.PriceMin.Equal(PriceFloor) || !s.PriceMax.Equal(PriceCeiling) {
		req.MinMaxPriceFilter = &backend.PriceRange{Min: s.PriceMin, Max: s.PriceMax}
	}
	return req
}

type productFetcher interface {
	GetFilteredProducts(ctx context.Context, filters backend.FilterRequest) (*backend.ProductPage, error)
}

// Snapshot is a consistent read of the engine for rendering: the filters, the
// last page that arrived, and whether a fetch is in flight. On a failed fetch
// the previous page stays visible.
type Snapshot struct {
	State   FilterState
	Page    *backend.ProductPage
	Loading bool
	Err     error
}

// Engine owns the browse state and serializes refetches. Filter setters only
// mutate state and signal the change; a single subscriber goroutine (Run)
// performs the fetches. Responses carry the sequence number of the request
// that produced them, and anything older than the latest issued request is
// dropped, so a slow early response can never overwrite a newer one.
type Engine struct {
	fetcher productFetcher
	logg    *logger.Logger

	mu        sync.Mutex
	state     FilterState
	page      *backend.ProductPage
	loading   bool
	lastErr   error
	seqIssued uint64

	changes chan struct{}
}

func NewEngine(fetcher productFetcher, logg *logger.Logger) (*Engine, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("product fetcher required")
	}
	return &Engine{
		fetcher: fetcher,
		logg:    logg,
		state:   DefaultFilterState(),
		changes: make(chan struct{}, 1),
	}, nil
}

// Run consumes filter-change signals until the context ends. It is the only
// goroutine that calls the backend on the engine's behalf.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.changes:
			e.Refetch(ctx)
		}
	}
}

// Refetch performs one fetch for the current state and applies the result.
func (e *Engine) Refetch(ctx context.Context) {
	seq, req := e.beginFetch()
	page, err := e.fetcher.GetFilteredProducts(ctx, req)
	e.completeFetch(ctx, seq, page, err)
}

// beginFetch snapshots the state for one request and assigns its sequence
// number.
func (e *Engine) beginFetch() (uint64, backend.FilterRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seqIssued++
	e.loading = true
	return e.seqIssued, e.state.Request()
}

// completeFetch applies a response unless a newer request has been issued
// since; stale responses are dropped whole.
func (e *Engine) completeFetch(ctx context.Context, seq uint64, page *backend.ProductPage, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seqIssued {
		if e.logg != nil {
			e.logg.Debug(ctx, "dropping stale product response")
		}
		return
	}
	e.loading = false
	if err != nil {
		// Keep the previous page on screen; the grid shows stale data
		// rather than going blank.
		e.lastErr = err
		if e.logg != nil {
			e.logg.Error(ctx, "product fetch failed", err)
		}
		return
	}
	e.page = page
	e.lastErr = nil
}

// Snapshot returns the current render state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:   e.state,
		Page:    e.page,
		Loading: e.loading,
		Err:     e.lastErr,
	}
}

// SetText replaces the text filter and rewinds to the first page.
func (e *Engine) SetText(text string) {
	e.update(func(s *FilterState) {
		s.Text = text
		s.Page = 1
	})
}

// ToggleCategory adds or removes one category from the selection and rewinds
// to the first page.
func (e *Engine) ToggleCategory(name string) {
	e.update(func(s *FilterState) {
		for i, existing := range s.Categories {
			if existing == name {
				s.Categories = append(s.Categories[:i], s.Categories[i+1:]...)
				s.Page = 1
				return
			}
		}
		s.Categories = append(s.Categories, name)
		s.Page = 1
	})
}

// SetCategories replaces the whole category selection.
func (e *Engine) SetCategories(names []string) {
	e.update(func(s *FilterState) {
		s.Categories = names
		s.Page = 1
	})
}

// SetPriceRange replaces the price bounds. Values are clamped to the
// [PriceFloor, PriceCeiling] slider range and swapped if inverted.
func (e *Engine) SetPriceRange(min, max decimal.Decimal) {
	if min.GreaterThan(max) {
		min, max = max, min
	}
	if min.LessThan(PriceFloor) {
		min = PriceFloor
	}
	if max.GreaterThan(PriceCeiling) {
		max = PriceCeiling
	}
	e.update(func(s *FilterState) {
		s.PriceMin = min
		s.PriceMax = max
		s.Page = 1
	})
}

// SetSort replaces the sort order and rewinds to the first page.
func (e *Engine) SetSort(sort backend.SortSpec) {
	e.update(func(s *FilterState) {
		s.Sort = sort
		s.Page = 1
	})
}

// SetPageSize changes how many products one page holds and rewinds to the
// first page.
func (e *Engine) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	e.update(func(s *FilterState) {
		s.PageSize = size
		s.Page = 1
	})
}

// SetPage moves to another page of the current result set. This is the one
// setter that keeps the page, by definition.
func (e *Engine) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.update(func(s *FilterState) {
		s.Page = page
	})
}

// ClearFilters resets every filter to its default in one step, emitting a
// single change signal regardless of how many fields moved.
func (e *Engine) ClearFilters() {
	e.update(func(s *FilterState) {
		*s = DefaultFilterState()
	})
}

// Invalidate requests a refetch without touching the filters. Mutation flows
// call this after a successful write.
func (e *Engine) Invalidate() {
	e.signal()
}

func (e *Engine) update(mutate func(*FilterState)) {
	e.mu.Lock()
	mutate(&e.state)
	e.mu.Unlock()
	e.signal()
}

// signal coalesces: if a change is already pending the new one folds into it,
// since the subscriber always fetches the latest state anyway.
func (e *Engine) signal() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}
