package services

import (
	"context"
	"strings"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/events"

	"github.com/mmcloughlin/geohash"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceService writes the tagged places of a property. A property holds at
// most one place per tag; writing a tag again replaces its value.
type PlaceService struct {
	places     repositories.PlaceRepository
	properties repositories.PropertyRepository
	cache      repositories.PropertyCache
	validator  validators.PlaceValidator
	publisher  events.Publisher
}

func NewPlaceService(
	places repositories.PlaceRepository,
	properties repositories.PropertyRepository,
	cache repositories.PropertyCache,
	validator validators.PlaceValidator,
	publisher events.Publisher,
) *PlaceService {
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &PlaceService{places: places, properties: properties, cache: cache, validator: validator, publisher: publisher}
}

func (s *PlaceService) GetByProperty(ctx context.Context, propertyID string) ([]models.PropertyPlace, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	return s.places.FindByPropertyID(ctx, pid)
}

// Upsert writes one tagged place of an existing property.
func (s *PlaceService) Upsert(ctx context.Context, propertyID string, in *models.PlaceInput) (*models.PropertyPlace, error) {
	if err := s.validator.ValidatePlace(in); err != nil {
		return nil, err
	}
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.NotFound("property", propertyID)
	}

	place := newPlace(pid, in)
	if err := s.places.Upsert(ctx, place); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.PlaceUpserted, propertyID, place)
	invalidateProperty(ctx, s.cache, propertyID)
	return place, nil
}

// upsertLocations writes the City, State and Country places of a property.
// Coordinates, when given, are stored on the City place.
func (s *PlaceService) upsertLocations(ctx context.Context, pid primitive.ObjectID, values map[string]string, lat, lng *float64) error {
	for tag, value := range values {
		in := &models.PlaceInput{Name: tag, Value: strings.TrimSpace(value), PlaceType: tag}
		if tag == models.PlaceCity {
			in.Latitude, in.Longitude = lat, lng
		}
		if err := s.places.Upsert(ctx, newPlace(pid, in)); err != nil {
			return err
		}
	}
	return nil
}

func (s *PlaceService) Delete(ctx context.Context, id string) error {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if place == nil {
		return apperrors.NotFound("place", id)
	}
	n, err := s.places.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("place", id)
	}
	publish(ctx, s.publisher, events.PlaceDeleted, place.IdProperty.Hex(), map[string]string{"placeId": id})
	invalidateProperty(ctx, s.cache, place.IdProperty.Hex())
	return nil
}

func (s *PlaceService) deleteByProperty(ctx context.Context, pid primitive.ObjectID) (int64, error) {
	return s.places.DeleteByPropertyID(ctx, pid)
}

func newPlace(pid primitive.ObjectID, in *models.PlaceInput) *models.PropertyPlace {
	place := &models.PropertyPlace{
		IdProperty: pid,
		Name:       models.CanonicalTag(in.Name),
		Value:      strings.TrimSpace(in.Value),
		PlaceType:  strings.TrimSpace(in.PlaceType),
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
	}
	if place.PlaceType == "" {
		place.PlaceType = place.Name
	}
	if in.Latitude != nil && in.Longitude != nil {
		place.Geohash = geohash.Encode(*in.Latitude, *in.Longitude)
	}
	return place
}
