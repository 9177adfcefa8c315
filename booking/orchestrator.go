package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

const (
	// defaultMinInterval is the quiet period required between two completed
	// bulk requests before a new one is allowed out.
	defaultMinInterval = 2000 * time.Millisecond

	noPricingDataError  = "No pricing data received"
	defaultPricingError = "Failed to fetch pricing"
)

// Orchestrator resolves pricing for a property list over one date range in a
// single batched round trip. It guards against redundant work triggered by
// rapid re-renders: at most one bulk request in flight, a completed request's
// signature suppresses an identical follow-up, and a minimum interval must
// elapse after a completion before the next request goes out.
type Orchestrator struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Logger

	minInterval time.Duration
	now         func() time.Time

	mu              sync.Mutex
	inFlight        bool
	lastSignature   string
	lastCompletedAt time.Time
	closed          bool
}

func NewOrchestrator(baseURL string, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		endpoint:    strings.TrimRight(baseURL, "/") + "/api/properties/bulk-pricing",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		minInterval: defaultMinInterval,
		now:         time.Now,
	}
}

// FetchBulkPricing resolves pricing for every property in the list and merges
// the results back in place. A suppressed call (in flight, duplicate
// signature, or inside the minimum interval) is a logged no-op. After the
// call settles, every property has PricingLoading false and exactly one of
// Pricing or PricingError set.
func (o *Orchestrator) FetchBulkPricing(ctx context.Context, properties []*domain.PropertySummary, start, end string) {
	if len(properties) == 0 {
		return
	}
	signature := requestSignature(properties, start, end)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.inFlight {
		o.mu.Unlock()
		o.logger.WithFields(logrus.Fields{"path": "booking/orchestrator"}).Debug("bulk pricing request already in flight, dropping trigger")
		return
	}
	if signature == o.lastSignature {
		o.mu.Unlock()
		o.logger.WithFields(logrus.Fields{"path": "booking/orchestrator"}).Debug("bulk pricing signature unchanged, skipping")
		return
	}
	if !o.lastCompletedAt.IsZero() && o.now().Sub(o.lastCompletedAt) < o.minInterval {
		o.mu.Unlock()
		o.logger.WithFields(logrus.Fields{"path": "booking/orchestrator"}).Debug("bulk pricing triggered inside minimum interval, skipping")
		return
	}
	o.inFlight = true
	o.mu.Unlock()

	for _, property := range properties {
		property.PricingLoading = true
		property.PricingError = ""
	}

	response, err := o.postBulk(ctx, properties, start, end)

	o.mu.Lock()
	if o.closed {
		// torn down while the request was outstanding; a stale response
		// must not mutate the list
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	if err != nil {
		failAll(properties, defaultPricingError)
	} else if !response.Success {
		message := response.Error
		if message == "" {
			message = defaultPricingError
		}
		failAll(properties, message)
	} else {
		mergeResults(properties, response.Results)
	}

	o.mu.Lock()
	o.inFlight = false
	o.lastSignature = signature
	o.lastCompletedAt = o.now()
	o.mu.Unlock()
}

// Reset clears the dedup state so the next trigger is not suppressed as a
// duplicate. The filter reconciler calls this after replacing the list.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.lastSignature = ""
	o.lastCompletedAt = time.Time{}
	o.mu.Unlock()
}

// Close prevents any outstanding response from mutating state after the
// owning view is torn down.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

func (o *Orchestrator) postBulk(ctx context.Context, properties []*domain.PropertySummary, start, end string) (*domain.BulkPricingResponse, error) {
	request := domain.BulkPricingRequest{Properties: make([]domain.PricingRequest, 0, len(properties))}
	for _, property := range properties {
		request.Properties = append(request.Properties, domain.PricingRequest{
			PropertyID: property.ID,
			StartDate:  start,
			EndDate:    end,
		})
	}

	body, err := json.Marshal(&request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response domain.BulkPricingResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && response.Error == "" {
		response.Success = false
		response.Error = defaultPricingError
	}
	return &response, nil
}

// requestSignature derives the dedup key: sorted property ids plus the date
// range.
func requestSignature(properties []*domain.PropertySummary, start, end string) string {
	ids := make([]int, 0, len(properties))
	for _, property := range properties {
		ids = append(ids, property.ID)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",") + "|" + start + "|" + end
}

func failAll(properties []*domain.PropertySummary, message string) {
	for _, property := range properties {
		property.Pricing = nil
		property.PricingLoading = false
		property.PricingError = message
	}
}

// mergeResults matches each property to its result by id, tolerating numeric
// and string id forms. A property with no result at all is a failure for that
// property only, never for the batch.
func mergeResults(properties []*domain.PropertySummary, results []domain.PricingResult) {
	for _, property := range properties {
		var matched *domain.PricingResult
		for i := range results {
			if results[i].PropertyID.Matches(property.ID) {
				matched = &results[i]
				break
			}
		}

		property.PricingLoading = false
		if matched == nil {
			property.Pricing = nil
			property.PricingError = noPricingDataError
			continue
		}
		if !matched.Success {
			property.Pricing = nil
			property.PricingError = matched.Error
			if property.PricingError == "" {
				property.PricingError = defaultPricingError
			}
			continue
		}

		// a success result with no pricing payload carries nothing usable;
		// treating it as missing data keeps the settled state at exactly one
		// of Pricing or PricingError set
		if matched.Pricing == nil {
			property.Pricing = nil
			property.Price = 0
			property.PricingError = noPricingDataError
			continue
		}

		property.Pricing = matched.Pricing
		property.PricingError = ""
		property.Price = matched.Pricing.Summary.TotalAmount
	}
}
