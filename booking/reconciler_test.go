package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stayhaven/domain"
)

type stubSearcher struct {
	calls      int32
	properties []*domain.PropertySummary
	err        error
}

func (s *stubSearcher) Search(ctx context.Context, params SearchParams) ([]*domain.PropertySummary, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.properties, nil
}

func fullPropertySet() []*domain.PropertySummary {
	return []*domain.PropertySummary{
		{ID: 1, RoomType: "villa", Beds: 3, Bathrooms: 2, Persons: 6, Price: 4000, PricingLoading: false},
		{ID: 2, RoomType: "apartment", Beds: 1, Bathrooms: 1, Persons: 2, Price: 2500, PricingLoading: false},
		{ID: 3, RoomType: "villa", Beds: 5, Bathrooms: 4, Persons: 10, Price: 0, PricingLoading: true},
	}
}

func newTestReconciler(search Searcher, orchestrator *Orchestrator) *Reconciler {
	reconciler := NewReconciler(search, orchestrator, SearchParams{
		AvailabilityFrom: "2025-06-01",
		AvailabilityTo:   "2025-06-05",
		GuestsFrom:       2,
	}, testLogger())
	reconciler.debounce = 10 * time.Millisecond
	return reconciler
}

func TestApplyFiltersInactiveRestoresWithoutNetwork(t *testing.T) {
	search := &stubSearcher{}
	reconciler := newTestReconciler(search, nil)
	full := fullPropertySet()
	reconciler.SetFullList(full)

	// narrow first so the current list differs from the full one
	reconciler.current = full[:1]

	reconciler.ApplyFilters(context.Background(), domain.NewFilterState())

	if len(reconciler.Properties()) != len(full) {
		t.Fatalf("expected full list restored immediately, got %d properties", len(reconciler.Properties()))
	}

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&search.calls); got != 0 {
		t.Fatalf("expected no network call for inactive filters, got %d", got)
	}
}

func TestApplyFiltersDebounceCoalesces(t *testing.T) {
	search := &stubSearcher{properties: fullPropertySet()[:1]}
	reconciler := newTestReconciler(search, nil)
	reconciler.SetFullList(fullPropertySet())

	filter := domain.NewFilterState()
	filter.RoomTypes = []string{"villa"}

	for i := 0; i < 5; i++ {
		reconciler.ApplyFilters(context.Background(), filter)
	}

	waitFor(t, func() bool { return atomic.LoadInt32(&search.calls) == 1 })
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&search.calls); got != 1 {
		t.Fatalf("expected rapid filter changes to coalesce into one call, got %d", got)
	}
}

func TestApplyFiltersServerSuccessReplacesListAndRetriggersPricing(t *testing.T) {
	var pricingCalls int32
	pricingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pricingCalls, 1)
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 400)))
	}))
	defer pricingServer.Close()

	orchestrator := NewOrchestrator(pricingServer.URL, testLogger())
	filtered := []*domain.PropertySummary{{ID: 1, RoomType: "villa", PricingLoading: true}}
	search := &stubSearcher{properties: filtered}
	reconciler := newTestReconciler(search, orchestrator)
	reconciler.SetFullList(fullPropertySet())

	// complete one bulk round first so dedup state is primed with the same
	// signature the refetch will use
	orchestrator.FetchBulkPricing(context.Background(), filtered, "2025-06-01", "2025-06-05")
	if got := atomic.LoadInt32(&pricingCalls); got != 1 {
		t.Fatalf("expected priming call, got %d", got)
	}

	filter := domain.NewFilterState()
	filter.RoomTypes = []string{"villa"}
	reconciler.ApplyFilters(context.Background(), filter)

	waitFor(t, func() bool { return atomic.LoadInt32(&pricingCalls) == 2 })

	properties := reconciler.Properties()
	if len(properties) != 1 || properties[0].ID != 1 {
		t.Fatalf("expected filtered list to replace current, got %v", properties)
	}
	if reconciler.Page() != 1 {
		t.Fatalf("expected pagination reset to 1, got %d", reconciler.Page())
	}
}

func TestApplyFiltersFallsBackToLocalFilter(t *testing.T) {
	search := &stubSearcher{err: errors.New("server down")}
	reconciler := newTestReconciler(search, nil)
	reconciler.SetFullList(fullPropertySet())

	filter := domain.NewFilterState()
	filter.RoomTypes = []string{"villa"}
	reconciler.ApplyFilters(context.Background(), filter)

	waitFor(t, func() bool { return len(reconciler.Properties()) == 2 })

	for _, property := range reconciler.Properties() {
		if property.RoomType != "villa" {
			t.Fatalf("local fallback kept a %q property", property.RoomType)
		}
	}
	if reconciler.Page() != 1 {
		t.Fatalf("expected pagination reset to 1, got %d", reconciler.Page())
	}
}

func TestLocalFilterPriceRangeExcludesUnpriced(t *testing.T) {
	properties := []*domain.PropertySummary{
		{ID: 1, Price: 0},
		{ID: 2, Price: 2500},
		{ID: 3, Price: 4000},
	}
	filter := domain.NewFilterState()
	filter.PriceRange = [2]float64{3000, 10000}

	filtered := LocalFilter(properties, filter)

	if len(filtered) != 1 || filtered[0].ID != 3 {
		t.Fatalf("expected only the 4000 property to pass, got %v", filtered)
	}
}

func TestLocalFilterBuckets(t *testing.T) {
	properties := []*domain.PropertySummary{
		{ID: 1, Beds: 2, Bathrooms: 1, Persons: 4, Price: 100},
		{ID: 2, Beds: 4, Bathrooms: 3, Persons: 7, Price: 100},
		{ID: 3, Beds: 6, Bathrooms: 5, Persons: 12, Price: 100},
	}

	filter := domain.NewFilterState()
	filter.BedroomRanges = []string{"5+"}
	filtered := LocalFilter(properties, filter)
	if len(filtered) != 1 || filtered[0].ID != 3 {
		t.Fatalf("expected 5+ beds to keep property 3, got %v", filtered)
	}

	filter = domain.NewFilterState()
	filter.GuestRanges = []string{"1-4", "9+"}
	filtered = LocalFilter(properties, filter)
	if len(filtered) != 2 {
		t.Fatalf("expected guest buckets to keep properties 1 and 3, got %v", filtered)
	}
}

func TestReconcilerCloseStopsPendingWork(t *testing.T) {
	search := &stubSearcher{properties: fullPropertySet()[:1]}
	reconciler := newTestReconciler(search, nil)
	reconciler.SetFullList(fullPropertySet())

	filter := domain.NewFilterState()
	filter.RoomTypes = []string{"villa"}
	reconciler.ApplyFilters(context.Background(), filter)
	reconciler.Close()

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&search.calls); got != 0 {
		t.Fatalf("expected close to cancel the pending debounce, got %d calls", got)
	}
}
