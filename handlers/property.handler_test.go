package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/domain"
	"stayhaven/services"
)

type stubPropertyService struct {
	filters    services.SearchFilters
	properties []*domain.Property
}

func (s *stubPropertyService) SearchProperties(filters services.SearchFilters, ctx context.Context) ([]*domain.Property, error) {
	s.filters = filters
	return s.properties, nil
}

func (s *stubPropertyService) GetAllProperties(ctx context.Context) ([]*domain.Property, error) {
	return s.properties, nil
}

func (s *stubPropertyService) GetPropertyByID(propertyID int, ctx context.Context) (*domain.Property, error) {
	return nil, nil
}

func (s *stubPropertyService) GetLocations(ctx context.Context) ([]string, error) {
	return []string{"Miami, US"}, nil
}

func newPropertyTestRouter(service *stubPropertyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewPropertyHandler(service, nil, logger, trace.NewNoopTracerProvider().Tracer("test"))
	router := gin.New()
	router.GET("/api/properties/search", handler.SearchProperties)
	router.GET("/api/properties/locations", handler.GetLocations)
	return router
}

func TestSearchHandlerParsesFilterParams(t *testing.T) {
	service := &stubPropertyService{
		properties: []*domain.Property{{PropertyID: 101, Title: "Villa Mar", Price: 250}},
	}
	router := newPropertyTestRouter(service)

	url := "/api/properties/search?ids=101,102&guestsFrom=2&guestsTo=6" +
		"&roomTypes=villa,apartment&bedroomRanges=1-2,5%2B&priceRange=%5B3000,10000%5D"
	request := httptest.NewRequest(http.MethodGet, url, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if !reflect.DeepEqual(service.filters.IDs, []int{101, 102}) {
		t.Fatalf("ids parsed as %v", service.filters.IDs)
	}
	if service.filters.GuestsFrom != 2 || service.filters.GuestsTo != 6 {
		t.Fatalf("guest bounds parsed as %d..%d", service.filters.GuestsFrom, service.filters.GuestsTo)
	}
	if !reflect.DeepEqual(service.filters.RoomTypes, []string{"villa", "apartment"}) {
		t.Fatalf("roomTypes parsed as %v", service.filters.RoomTypes)
	}
	if !reflect.DeepEqual(service.filters.BedroomRanges, []string{"1-2", "5+"}) {
		t.Fatalf("bedroomRanges parsed as %v", service.filters.BedroomRanges)
	}
	if service.filters.PriceRange == nil || service.filters.PriceRange[0] != 3000 || service.filters.PriceRange[1] != 10000 {
		t.Fatalf("priceRange parsed as %v", service.filters.PriceRange)
	}
}

func TestSearchHandlerReturnsUnpricedSummaries(t *testing.T) {
	service := &stubPropertyService{
		properties: []*domain.Property{{PropertyID: 101, Title: "Villa Mar", Price: 250}},
	}
	router := newPropertyTestRouter(service)

	request := httptest.NewRequest(http.MethodGet, "/api/properties/search", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var response domain.SearchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !response.Success || len(response.Data.Properties) != 1 {
		t.Fatalf("unexpected response: %+v", response)
	}

	property := response.Data.Properties[0]
	if property.Price != 0 {
		t.Fatalf("search must not expose the stored price, got %v", property.Price)
	}
	if !property.PricingLoading {
		t.Fatal("search results must start with pricingLoading=true")
	}
}

func TestSearchHandlerRejectsBadPriceRange(t *testing.T) {
	router := newPropertyTestRouter(&stubPropertyService{})

	request := httptest.NewRequest(http.MethodGet, "/api/properties/search?priceRange=notjson", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed priceRange, got %d", recorder.Code)
	}
}

func TestLocationsHandler(t *testing.T) {
	router := newPropertyTestRouter(&stubPropertyService{})

	request := httptest.NewRequest(http.MethodGet, "/api/properties/locations", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var response struct {
		Success   bool     `json:"success"`
		Locations []string `json:"locations"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !response.Success || len(response.Locations) != 1 {
		t.Fatalf("unexpected response: %+v", response)
	}
}
