package domain

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPriceRange is the full slider range; a FilterState whose PriceRange
// equals it has no price filter applied.
var DefaultPriceRange = [2]float64{0, 10000}

// FilterState holds the listing-page filter selections. The zero value plus
// DefaultPriceRange means no filters are active.
type FilterState struct {
	RoomTypes      []string   `json:"roomTypes"`
	BedroomRanges  []string   `json:"bedroomRanges"`
	BathroomRanges []string   `json:"bathroomRanges"`
	GuestRanges    []string   `json:"guestRanges"`
	PriceRange     [2]float64 `json:"priceRange"`
}

func NewFilterState() FilterState {
	return FilterState{PriceRange: DefaultPriceRange}
}

func (f FilterState) Active() bool {
	if len(f.RoomTypes) > 0 || len(f.BedroomRanges) > 0 ||
		len(f.BathroomRanges) > 0 || len(f.GuestRanges) > 0 {
		return true
	}
	return f.PriceRange != DefaultPriceRange
}

// BucketBounds parses a count bucket like "1-2", "3-4", "5+", "1-4", "5-8"
// or "9+" into inclusive bounds. Open-ended buckets return MaxInt as max.
func BucketBounds(bucket string) (int, int, bool) {
	bucket = strings.TrimSpace(bucket)
	if strings.HasSuffix(bucket, "+") {
		min, err := strconv.Atoi(strings.TrimSuffix(bucket, "+"))
		if err != nil {
			return 0, 0, false
		}
		return min, math.MaxInt32, true
	}
	parts := strings.SplitN(bucket, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err1 := strconv.Atoi(parts[0])
	max, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return min, max, true
}

// MatchesBucket reports whether value falls in any of the given buckets.
// An empty bucket list matches everything.
func MatchesBucket(value int, buckets []string) bool {
	if len(buckets) == 0 {
		return true
	}
	for _, b := range buckets {
		min, max, ok := BucketBounds(b)
		if ok && value >= min && value <= max {
			return true
		}
	}
	return false
}
