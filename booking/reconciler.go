package booking

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

// defaultFilterDebounce coalesces rapid filter interactions (a price slider
// drag, repeated checkbox toggles) into one reconciliation.
const defaultFilterDebounce = 500 * time.Millisecond

// Searcher is the slice of SearchClient the reconciler depends on.
type Searcher interface {
	Search(ctx context.Context, params SearchParams) ([]*domain.PropertySummary, error)
}

// Reconciler turns filter selections into an updated property list. Active
// filters re-query the server after a debounce; a server failure degrades to
// an equivalent local predicate filter over the last known unfiltered set.
// Clearing all filters restores the full list immediately with no network
// call. New filtered results always replace the list wholesale so stale
// pricing state cannot survive on properties no longer in view.
type Reconciler struct {
	search       Searcher
	orchestrator *Orchestrator
	logger       *logrus.Logger
	debounce     time.Duration

	mu         sync.Mutex
	baseParams SearchParams
	fullList   []*domain.PropertySummary
	current    []*domain.PropertySummary
	page       int
	timer      *time.Timer
	generation uint64
	closed     bool
}

func NewReconciler(search Searcher, orchestrator *Orchestrator, baseParams SearchParams, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		search:       search,
		orchestrator: orchestrator,
		logger:       logger,
		debounce:     defaultFilterDebounce,
		baseParams:   baseParams,
		page:         1,
	}
}

// SetFullList records the unfiltered result set and makes it current.
func (r *Reconciler) SetFullList(properties []*domain.PropertySummary) {
	r.mu.Lock()
	r.fullList = properties
	r.current = properties
	r.page = 1
	r.mu.Unlock()
}

// Properties returns the currently visible property list.
func (r *Reconciler) Properties() []*domain.PropertySummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Reconciler) Page() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page
}

// ApplyFilters schedules a reconciliation for the given filter state. Each
// call supersedes any pending one; only the latest state is acted on once
// the debounce elapses.
func (r *Reconciler) ApplyFilters(ctx context.Context, filter domain.FilterState) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.generation++

	if !filter.Active() {
		r.current = r.fullList
		r.page = 1
		r.mu.Unlock()
		return
	}

	generation := r.generation
	r.timer = time.AfterFunc(r.debounce, func() {
		r.reconcile(ctx, filter, generation)
	})
	r.mu.Unlock()
}

// Close stops any pending debounce and prevents late results from mutating
// the list.
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.closed = true
	r.mu.Unlock()
}

func (r *Reconciler) reconcile(ctx context.Context, filter domain.FilterState, generation uint64) {
	r.mu.Lock()
	if r.closed || generation != r.generation {
		r.mu.Unlock()
		return
	}
	params := r.baseParams.WithFilters(filter)
	fullList := r.fullList
	r.mu.Unlock()

	properties, err := r.search.Search(ctx, params)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "booking/reconciler"}).Error("Filtered search failed, falling back to local filter:", err)
		filtered := LocalFilter(fullList, filter)
		r.mu.Lock()
		if !r.closed && generation == r.generation {
			r.current = filtered
			r.page = 1
		}
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	if r.closed || generation != r.generation {
		r.mu.Unlock()
		return
	}
	r.current = properties
	r.page = 1
	start := r.baseParams.AvailabilityFrom
	end := r.baseParams.AvailabilityTo
	orchestrator := r.orchestrator
	r.mu.Unlock()

	if orchestrator != nil {
		// the new list must not be suppressed as a duplicate of the
		// previous one
		orchestrator.Reset()
		orchestrator.FetchBulkPricing(ctx, properties, start, end)
	}
}

// LocalFilter applies the filter state as client-side predicates. A property
// whose pricing has not loaded yet carries price 0 and is therefore excluded
// by any minimum price above zero; that matches the live behavior and is
// deliberately not special-cased.
func LocalFilter(properties []*domain.PropertySummary, filter domain.FilterState) []*domain.PropertySummary {
	filtered := make([]*domain.PropertySummary, 0, len(properties))
	for _, property := range properties {
		if len(filter.RoomTypes) > 0 && !containsString(filter.RoomTypes, property.RoomType) {
			continue
		}
		if !domain.MatchesBucket(property.Beds, filter.BedroomRanges) {
			continue
		}
		if !domain.MatchesBucket(property.Bathrooms, filter.BathroomRanges) {
			continue
		}
		if !domain.MatchesBucket(property.Persons, filter.GuestRanges) {
			continue
		}
		if property.Price < filter.PriceRange[0] || property.Price > filter.PriceRange[1] {
			continue
		}
		filtered = append(filtered, property)
	}
	return filtered
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
