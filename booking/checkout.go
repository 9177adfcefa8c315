package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

// CheckoutFetcher resolves pricing for one already-chosen property whenever
// the guest changes the date range. There is no batching, dedup, or debounce
// here: every date change issues a fresh call. Responses carry a monotonic
// sequence number and the newest request wins; a response belonging to a
// superseded request is discarded instead of overwriting fresher state.
type CheckoutFetcher struct {
	baseURL    string
	propertyID int
	httpClient *http.Client
	logger     *logrus.Logger

	mu      sync.Mutex
	seq     uint64
	loading bool
	pricing *domain.PricingDetail
	err     string
}

func NewCheckoutFetcher(baseURL string, propertyID int, logger *logrus.Logger) *CheckoutFetcher {
	return &CheckoutFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		propertyID: propertyID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// FetchPricing looks up pricing for the date range and records the outcome,
// unless a newer fetch has been issued in the meantime.
func (f *CheckoutFetcher) FetchPricing(ctx context.Context, start, end string) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.loading = true
	f.mu.Unlock()

	response, err := f.get(ctx, start, end)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		f.logger.WithFields(logrus.Fields{"path": "booking/checkout"}).Debug("discarding superseded pricing response")
		return
	}
	f.loading = false

	if err != nil {
		f.pricing = nil
		f.err = defaultPricingError
		return
	}
	if !response.Success {
		f.pricing = nil
		f.err = response.Error
		if f.err == "" {
			f.err = defaultPricingError
		}
		return
	}
	f.pricing = response.Pricing
	f.err = ""
}

// Clear drops pricing state immediately without a network call; used when
// either date is cleared. Bumping the sequence also invalidates any response
// still in flight.
func (f *CheckoutFetcher) Clear() {
	f.mu.Lock()
	f.seq++
	f.loading = false
	f.pricing = nil
	f.err = ""
	f.mu.Unlock()
}

// State returns the current pricing, error message, and loading flag.
func (f *CheckoutFetcher) State() (*domain.PricingDetail, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pricing, f.err, f.loading
}

// Total returns the running booking total, 0 while pricing is unresolved.
func (f *CheckoutFetcher) Total() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pricing == nil {
		return 0
	}
	return f.pricing.Summary.TotalAmount
}

func (f *CheckoutFetcher) get(ctx context.Context, start, end string) (*domain.SinglePricingResponse, error) {
	endpoint := fmt.Sprintf("%s/api/properties/%d/pricing?start=%s&end=%s", f.baseURL, f.propertyID, start, end)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response domain.SinglePricingResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	return &response, nil
}
