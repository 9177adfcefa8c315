package domain

import (
	"encoding/json"
	"strconv"
)

// FlexID tolerates upstreams that serialize property ids as JSON numbers or
// strings; matching against the numeric id must work for both forms.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) Matches(id int) bool {
	return string(f) == strconv.Itoa(id)
}

func NewFlexID(id int) FlexID {
	return FlexID(strconv.Itoa(id))
}

// PricingRequest is one entry of a bulk pricing call, one per property.
type PricingRequest struct {
	PropertyID int    `json:"id"`
	StartDate  string `json:"start"`
	EndDate    string `json:"end"`
}

type BulkPricingRequest struct {
	Properties []PricingRequest `json:"properties"`
}

type PricingSummary struct {
	AveragePricePerNight float64 `json:"averagePricePerNight"`
	AvailableNights      int     `json:"availableNights"`
	BlockedNights        int     `json:"blockedNights"`
	TotalAmount          float64 `json:"totalAmount"`
}

type PricingDetail struct {
	Summary PricingSummary `json:"summary"`
}

// PricingResult is the per-property outcome of a pricing resolution. Every
// request entry yields exactly one result; a failed property carries Error
// and a nil Pricing.
type PricingResult struct {
	PropertyID FlexID         `json:"propertyId"`
	Success    bool           `json:"success"`
	Pricing    *PricingDetail `json:"pricing,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type BulkSummary struct {
	SuccessfulProperties int `json:"successfulProperties"`
}

type BulkPricingResponse struct {
	Success bool            `json:"success"`
	Summary BulkSummary     `json:"summary"`
	Results []PricingResult `json:"results"`
	Error   string          `json:"error,omitempty"`
}

type SinglePricingResponse struct {
	Success bool           `json:"success"`
	Pricing *PricingDetail `json:"pricing,omitempty"`
	Error   string         `json:"error,omitempty"`
}
