package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/domain"
)

type PropertyServiceImpl struct {
	collection *mongo.Collection
	ctx        context.Context
	Tracer     trace.Tracer
}

func NewPropertyServiceImpl(collection *mongo.Collection, ctx context.Context, tr trace.Tracer) PropertyService {
	return &PropertyServiceImpl{collection, ctx, tr}
}

func (s *PropertyServiceImpl) SearchProperties(filters SearchFilters, ctx context.Context) ([]*domain.Property, error) {
	ctx, span := s.Tracer.Start(ctx, "PropertyService.SearchProperties")
	defer span.End()

	filter := bson.M{}

	if len(filters.IDs) > 0 {
		filter["property_id"] = bson.M{"$in": filters.IDs}
	}

	if filters.GuestsFrom > 0 {
		filter["persons"] = bson.M{"$gte": filters.GuestsFrom}
	}
	if filters.GuestsTo > 0 {
		guests, ok := filter["persons"].(bson.M)
		if !ok {
			guests = bson.M{}
		}
		guests["$lte"] = filters.GuestsTo
		filter["persons"] = guests
	}

	if len(filters.RoomTypes) > 0 {
		filter["room_type"] = bson.M{"$in": filters.RoomTypes}
	}

	var and []bson.M
	if clause := bucketClause("beds", filters.BedroomRanges); clause != nil {
		and = append(and, clause)
	}
	if clause := bucketClause("bathrooms", filters.BathroomRanges); clause != nil {
		and = append(and, clause)
	}
	if clause := bucketClause("persons", filters.GuestRanges); clause != nil {
		and = append(and, clause)
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	if filters.PriceRange != nil {
		filter["price"] = bson.M{"$gte": filters.PriceRange[0], "$lte": filters.PriceRange[1]}
	}

	cursor, err := s.collection.Find(context.Background(), filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(context.Background())

	var properties []*domain.Property
	for cursor.Next(context.Background()) {
		var prop domain.Property
		if err := cursor.Decode(&prop); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		properties = append(properties, &prop)
	}

	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return properties, nil
}

// bucketClause turns count buckets like ["1-2","5+"] into an $or of bounded
// range predicates on the given field.
func bucketClause(field string, buckets []string) bson.M {
	if len(buckets) == 0 {
		return nil
	}
	var or []bson.M
	for _, bucket := range buckets {
		min, max, ok := domain.BucketBounds(bucket)
		if !ok {
			continue
		}
		or = append(or, bson.M{field: bson.M{"$gte": min, "$lte": max}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

func (s *PropertyServiceImpl) GetAllProperties(ctx context.Context) ([]*domain.Property, error) {
	ctx, span := s.Tracer.Start(ctx, "PropertyService.GetAllProperties")
	defer span.End()

	cursor, err := s.collection.Find(context.Background(), bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(context.Background())

	var properties []*domain.Property
	for cursor.Next(context.Background()) {
		var prop domain.Property
		if err := cursor.Decode(&prop); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		properties = append(properties, &prop)
	}

	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return properties, nil
}

func (s *PropertyServiceImpl) GetPropertyByID(propertyID int, ctx context.Context) (*domain.Property, error) {
	ctx, span := s.Tracer.Start(ctx, "PropertyService.GetPropertyByID")
	defer span.End()

	var property domain.Property
	err := s.collection.FindOne(context.Background(), bson.M{"property_id": propertyID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetStatus(codes.Error, "property not found")
			return nil, errors.New("property not found")
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &property, nil
}

func (s *PropertyServiceImpl) GetLocations(ctx context.Context) ([]string, error) {
	ctx, span := s.Tracer.Start(ctx, "PropertyService.GetLocations")
	defer span.End()

	values, err := s.collection.Distinct(context.Background(), "location", bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var locations []string
	for _, value := range values {
		if location, ok := value.(string); ok {
			locations = append(locations, location)
		}
	}
	return locations, nil
}
