package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

// SearchParams is the query surface of the property search endpoint. Range
// selections travel comma-joined; the price range travels as a JSON-encoded
// two-element array.
type SearchParams struct {
	IDs              []int
	AvailabilityFrom string
	AvailabilityTo   string
	GuestsFrom       int
	GuestsTo         int
	RoomTypes        []string
	BedroomRanges    []string
	BathroomRanges   []string
	GuestRanges      []string
	PriceRange       *[2]float64
}

func (p SearchParams) Encode() url.Values {
	values := url.Values{}

	if len(p.IDs) > 0 {
		ids := make([]string, 0, len(p.IDs))
		for _, id := range p.IDs {
			ids = append(ids, strconv.Itoa(id))
		}
		values.Set("ids", strings.Join(ids, ","))
	}
	if p.AvailabilityFrom != "" {
		values.Set("availabilityFrom", p.AvailabilityFrom)
	}
	if p.AvailabilityTo != "" {
		values.Set("availabilityTo", p.AvailabilityTo)
	}
	if p.GuestsFrom > 0 {
		values.Set("guestsFrom", strconv.Itoa(p.GuestsFrom))
	}
	if p.GuestsTo > 0 {
		values.Set("guestsTo", strconv.Itoa(p.GuestsTo))
	}
	if len(p.RoomTypes) > 0 {
		values.Set("roomTypes", strings.Join(p.RoomTypes, ","))
	}
	if len(p.BedroomRanges) > 0 {
		values.Set("bedroomRanges", strings.Join(p.BedroomRanges, ","))
	}
	if len(p.BathroomRanges) > 0 {
		values.Set("bathroomRanges", strings.Join(p.BathroomRanges, ","))
	}
	if len(p.GuestRanges) > 0 {
		values.Set("guestRanges", strings.Join(p.GuestRanges, ","))
	}
	if p.PriceRange != nil {
		encoded, err := json.Marshal(*p.PriceRange)
		if err == nil {
			values.Set("priceRange", string(encoded))
		}
	}
	return values
}

// WithFilters returns a copy of the session params with the filter fields
// applied on top.
func (p SearchParams) WithFilters(filter domain.FilterState) SearchParams {
	merged := p
	merged.RoomTypes = filter.RoomTypes
	merged.BedroomRanges = filter.BedroomRanges
	merged.BathroomRanges = filter.BathroomRanges
	merged.GuestRanges = filter.GuestRanges
	if filter.PriceRange != domain.DefaultPriceRange {
		priceRange := filter.PriceRange
		merged.PriceRange = &priceRange
	}
	return merged
}

// SearchClient issues property search queries. It is stateless and safe to
// retry; returned properties carry no pricing yet.
type SearchClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewSearchClient(baseURL string, logger *logrus.Logger) *SearchClient {
	return &SearchClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (c *SearchClient) Search(ctx context.Context, params SearchParams) ([]*domain.PropertySummary, error) {
	endpoint := c.baseURL + "/api/properties/search"
	if query := params.Encode().Encode(); query != "" {
		endpoint += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var response domain.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding search response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !response.Success {
		if response.Error != "" {
			return nil, errors.New(response.Error)
		}
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	return response.Data.Properties, nil
}
