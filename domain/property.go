package domain

import (
	"encoding/json"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is the persisted listing document in the properties collection.
// PropertyID is the numeric id the property-management system knows the
// listing by; it is the id used on every pricing wire format.
type Property struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PropertyID    int                `bson:"property_id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Location      string             `bson:"location" json:"location"`
	Image         string             `bson:"image" json:"image"`
	Beds          int                `bson:"beds" json:"beds"`
	Bathrooms     int                `bson:"bathrooms" json:"bathrooms"`
	GuestType     string             `bson:"guest_type" json:"guestType"`
	Persons       int                `bson:"persons" json:"persons"`
	RoomType      string             `bson:"room_type" json:"roomType"`
	Facilities    []string           `bson:"facilities" json:"facilities"`
	Price         float64            `bson:"price" json:"price"`
	DiscountPrice float64            `bson:"discount_price" json:"discountPrice"`
	Badge         string             `bson:"badge" json:"badge"`
	Rating        float64            `bson:"rating" json:"rating"`
	Reviews       int                `bson:"reviews" json:"reviews"`
}

type Properties []*Property

// PropertySummary is the search-response shape consumed by the booking flow.
// Price starts at 0 and PricingLoading at true; the pricing orchestrator
// mutates the Pricing fields in place as results are merged back.
type PropertySummary struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	Image          string         `json:"image"`
	Beds           int            `json:"beds"`
	Bathrooms      int            `json:"bathrooms"`
	GuestType      string         `json:"guestType"`
	Persons        int            `json:"persons"`
	RoomType       string         `json:"roomType"`
	Facilities     []string       `json:"facilities"`
	Price          float64        `json:"price"`
	DiscountPrice  float64        `json:"discountPrice"`
	Badge          string         `json:"badge"`
	Rating         float64        `json:"rating"`
	Reviews        int            `json:"reviews"`
	Pricing        *PricingDetail `json:"pricing"`
	PricingLoading bool           `json:"pricingLoading"`
	PricingError   string         `json:"pricingError,omitempty"`
}

func (p *Property) Summary() *PropertySummary {
	return &PropertySummary{
		ID:             p.PropertyID,
		Title:          p.Title,
		Location:       p.Location,
		Image:          p.Image,
		Beds:           p.Beds,
		Bathrooms:      p.Bathrooms,
		GuestType:      p.GuestType,
		Persons:        p.Persons,
		RoomType:       p.RoomType,
		Facilities:     p.Facilities,
		DiscountPrice:  p.DiscountPrice,
		Badge:          p.Badge,
		Rating:         p.Rating,
		Reviews:        p.Reviews,
		Price:          0,
		PricingLoading: true,
	}
}

type SearchData struct {
	Properties []*PropertySummary `json:"properties"`
}

type SearchResponse struct {
	Success bool       `json:"success"`
	Data    SearchData `json:"data"`
	Error   string     `json:"error,omitempty"`
}

func (o *Properties) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *Properties) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}
