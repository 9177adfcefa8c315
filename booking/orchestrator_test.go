package booking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testProperties(ids ...int) []*domain.PropertySummary {
	properties := make([]*domain.PropertySummary, 0, len(ids))
	for _, id := range ids {
		properties = append(properties, &domain.PropertySummary{ID: id, PricingLoading: true})
	}
	return properties
}

func bulkResponse(results ...domain.PricingResult) domain.BulkPricingResponse {
	response := domain.BulkPricingResponse{Success: true, Results: results}
	for _, result := range results {
		if result.Success {
			response.Summary.SuccessfulProperties++
		}
	}
	return response
}

func successResult(id int, total float64) domain.PricingResult {
	return domain.PricingResult{
		PropertyID: domain.NewFlexID(id),
		Success:    true,
		Pricing: &domain.PricingDetail{Summary: domain.PricingSummary{
			AveragePricePerNight: total / 4,
			AvailableNights:      4,
			TotalAmount:          total,
		}},
	}
}

func TestFetchBulkPricingMergesPartialResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 400)))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(1, 2)

	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")

	for _, property := range properties {
		if property.PricingLoading {
			t.Fatalf("property %d still loading after settle", property.ID)
		}
		hasPricing := property.Pricing != nil
		hasError := property.PricingError != ""
		if hasPricing == hasError {
			t.Fatalf("property %d must have exactly one of pricing/error, got pricing=%v error=%q", property.ID, hasPricing, property.PricingError)
		}
	}

	if properties[0].Pricing == nil {
		t.Fatal("expected pricing on property 1")
	}
	if properties[0].Price != 400 {
		t.Fatalf("expected price 400 on property 1, got %v", properties[0].Price)
	}
	if properties[1].PricingError != "No pricing data received" {
		t.Fatalf("expected missing-result error on property 2, got %q", properties[1].PricingError)
	}
}

func TestFetchBulkPricingSuccessWithoutPayloadIsMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"summary":{"successfulProperties":1},"results":[{"propertyId":1,"success":true}]}`))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(1)

	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")

	if properties[0].PricingLoading {
		t.Fatal("property still loading after settle")
	}
	if properties[0].Pricing != nil {
		t.Fatalf("expected no pricing for an empty success result, got %+v", properties[0].Pricing)
	}
	if properties[0].PricingError != "No pricing data received" {
		t.Fatalf("expected missing-data error for an empty success result, got %q", properties[0].PricingError)
	}
}

func TestFetchBulkPricingStringIDsMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// propertyId serialized as a string, as some upstreams do
		w.Write([]byte(`{"success":true,"summary":{"successfulProperties":1},"results":[{"propertyId":"7","success":true,"pricing":{"summary":{"averagePricePerNight":100,"availableNights":2,"blockedNights":0,"totalAmount":200}}}]}`))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(7)

	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-03")

	if properties[0].Pricing == nil || properties[0].Price != 200 {
		t.Fatalf("expected string-keyed result to merge onto numeric id, got pricing=%v price=%v", properties[0].Pricing, properties[0].Price)
	}
}

func TestFetchBulkPricingDuplicateSignatureSuppressed(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 100), successResult(2, 100)))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	orchestrator.minInterval = 0
	properties := testProperties(1, 2)

	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")
	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one network call for an identical signature, got %d", got)
	}
}

func TestFetchBulkPricingInFlightGuard(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 100)))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(1)

	done := make(chan struct{})
	go func() {
		orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")
		close(done)
	}()

	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 1 })

	// different signature, but the first request is still outstanding
	orchestrator.FetchBulkPricing(context.Background(), testProperties(2), "2025-06-01", "2025-06-05")
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected overlapping trigger to be dropped, got %d calls", got)
	}

	close(release)
	<-done
}

func TestFetchBulkPricingMinIntervalSuppressed(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 100), successResult(2, 100), successResult(3, 100)))
	}))
	defer server.Close()

	now := time.Now()
	orchestrator := NewOrchestrator(server.URL, testLogger())
	orchestrator.now = func() time.Time { return now }

	orchestrator.FetchBulkPricing(context.Background(), testProperties(1), "2025-06-01", "2025-06-05")
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected first call to go out, got %d", got)
	}

	// different signature, inside the 2s interval
	now = now.Add(500 * time.Millisecond)
	orchestrator.FetchBulkPricing(context.Background(), testProperties(2), "2025-06-01", "2025-06-05")
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected call inside minimum interval to be suppressed, got %d", got)
	}

	now = now.Add(2 * time.Second)
	orchestrator.FetchBulkPricing(context.Background(), testProperties(3), "2025-06-01", "2025-06-05")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected call after interval to go out, got %d", got)
	}
}

func TestFetchBulkPricingBatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"error":"pricing backend down"}`))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(1, 2)

	orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")

	for _, property := range properties {
		if property.PricingLoading {
			t.Fatalf("property %d still loading after batch failure", property.ID)
		}
		if property.Pricing != nil {
			t.Fatalf("property %d has pricing after batch failure", property.ID)
		}
		if property.PricingError != "pricing backend down" {
			t.Fatalf("expected server-provided error, got %q", property.PricingError)
		}
	}
}

func TestFetchBulkPricingResetClearsDedup(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 100)))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	orchestrator.minInterval = 0

	orchestrator.FetchBulkPricing(context.Background(), testProperties(1), "2025-06-01", "2025-06-05")
	orchestrator.Reset()
	orchestrator.FetchBulkPricing(context.Background(), testProperties(1), "2025-06-01", "2025-06-05")

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected reset to allow an identical signature through, got %d calls", got)
	}
}

func TestCloseDiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(bulkResponse(successResult(1, 100)))
	}))
	defer server.Close()

	orchestrator := NewOrchestrator(server.URL, testLogger())
	properties := testProperties(1)

	done := make(chan struct{})
	go func() {
		orchestrator.FetchBulkPricing(context.Background(), properties, "2025-06-01", "2025-06-05")
		close(done)
	}()

	waitFor(t, func() bool {
		orchestrator.mu.Lock()
		defer orchestrator.mu.Unlock()
		return orchestrator.inFlight
	})

	orchestrator.Close()
	close(release)
	<-done

	if properties[0].Pricing != nil || properties[0].PricingError != "" {
		t.Fatal("stale response mutated state after close")
	}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
