package pms

import (
	"time"

	"stayhaven/domain"
)

const dateLayout = "2006-01-02"

// BuildSummary aggregates nightly rates over [start, end) into the pricing
// summary the booking flow consumes. The checkout day is not a priced night.
// Nights with no rate entry, or with an unavailable rate, count as blocked.
func BuildSummary(rates []NightlyRate, start, end string) (domain.PricingSummary, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return domain.PricingSummary{}, err
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return domain.PricingSummary{}, err
	}

	byDate := make(map[string]NightlyRate, len(rates))
	for _, rate := range rates {
		byDate[rate.Date] = rate
	}

	var summary domain.PricingSummary
	for d := startDate; d.Before(endDate); d = d.AddDate(0, 0, 1) {
		rate, ok := byDate[d.Format(dateLayout)]
		if !ok || !rate.Available {
			summary.BlockedNights++
			continue
		}
		summary.AvailableNights++
		summary.TotalAmount += rate.Price
	}

	if summary.AvailableNights > 0 {
		summary.AveragePricePerNight = summary.TotalAmount / float64(summary.AvailableNights)
	}
	return summary, nil
}
