package services

import (
	"context"
	"strings"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/events"
	"realestate-catalog/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyService owns property writes. Reads go through PropertySearchService.
type PropertyService struct {
	properties repositories.PropertyRepository
	owners     repositories.OwnerRepository
	traces     repositories.TraceRepository
	places     *PlaceService
	images     *ImageService
	cache      repositories.PropertyCache
	validator  validators.PropertyValidator
	publisher  events.Publisher
}

func NewPropertyService(
	properties repositories.PropertyRepository,
	owners repositories.OwnerRepository,
	traces repositories.TraceRepository,
	places *PlaceService,
	images *ImageService,
	cache repositories.PropertyCache,
	validator validators.PropertyValidator,
	publisher events.Publisher,
) *PropertyService {
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &PropertyService{
		properties: properties,
		owners:     owners,
		traces:     traces,
		places:     places,
		images:     images,
		cache:      cache,
		validator:  validator,
		publisher:  publisher,
	}
}

// requireOwner parses ownerID and checks that the owner exists.
func (s *PropertyService) requireOwner(ctx context.Context, ownerID string) (primitive.ObjectID, error) {
	oid, err := repositories.ParseID(ownerID)
	if err != nil {
		return oid, err
	}
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		return oid, err
	}
	if owner == nil {
		return oid, apperrors.NotFound("owner", ownerID)
	}
	return oid, nil
}

func (s *PropertyService) checkCodigo(ctx context.Context, code string, excludeID primitive.ObjectID) error {
	if code == "" {
		return nil
	}
	taken, err := s.properties.ExistsByCodigoInternal(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict("property", "codigoInternal", code)
	}
	return nil
}

// ExistsByCodigoInternal reports whether any property uses code.
func (s *PropertyService) ExistsByCodigoInternal(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, apperrors.Validation("codigoInternal is required")
	}
	return s.properties.ExistsByCodigoInternal(ctx, code, primitive.NilObjectID)
}

// Create inserts a property for an existing owner together with its
// City, State and Country places.
func (s *PropertyService) Create(ctx context.Context, in *models.PropertyInput) (*models.Property, error) {
	if err := s.validator.ValidateCreate(in); err != nil {
		return nil, err
	}
	ownerID, err := s.requireOwner(ctx, strings.TrimSpace(*in.IdOwner))
	if err != nil {
		return nil, err
	}

	property := &models.Property{
		Name:    strings.TrimSpace(*in.Name),
		Address: strings.TrimSpace(*in.Address),
		Price:   *in.Price,
		IdOwner: ownerID,
		Year:    in.Year,
	}
	if in.CodigoInternal != nil {
		property.CodigoInternal = strings.TrimSpace(*in.CodigoInternal)
	}
	if err := s.checkCodigo(ctx, property.CodigoInternal, primitive.NilObjectID); err != nil {
		return nil, err
	}

	if err := s.properties.Create(ctx, property); err != nil {
		logger.GlobalLogger.Errorf("Failed to create property: name=%s, error=%v", property.Name, err)
		return nil, err
	}
	if err := s.places.upsertLocations(ctx, property.ID, in.Places(), in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.PropertyCreated, property.ID.Hex(), property)
	invalidateProperty(ctx, s.cache, property.ID.Hex())
	return property, nil
}

// Update applies the non-nil fields of in to the property.
func (s *PropertyService) Update(ctx context.Context, id string, in *models.PropertyInput) (*models.Property, error) {
	if err := s.validator.ValidateUpdate(in); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.NotFound("property", id)
	}

	if in.Name != nil {
		property.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		property.Address = strings.TrimSpace(*in.Address)
	}
	if in.Price != nil {
		property.Price = *in.Price
	}
	if in.Year != nil {
		property.Year = in.Year
	}
	if in.IdOwner != nil {
		ownerID, err := s.requireOwner(ctx, strings.TrimSpace(*in.IdOwner))
		if err != nil {
			return nil, err
		}
		property.IdOwner = ownerID
	}
	if in.CodigoInternal != nil {
		code := strings.TrimSpace(*in.CodigoInternal)
		if code != property.CodigoInternal {
			if err := s.checkCodigo(ctx, code, property.ID); err != nil {
				return nil, err
			}
		}
		property.CodigoInternal = code
	}

	n, err := s.properties.Update(ctx, property)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("property", id)
	}
	if err := s.places.upsertLocations(ctx, property.ID, in.Places(), in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.PropertyUpdated, id, property)
	invalidateProperty(ctx, s.cache, id)
	return property, nil
}

// Delete removes the property, then its images, places and traces.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	pid, err := repositories.ParseID(id)
	if err != nil {
		return err
	}
	n, err := s.properties.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("property", id)
	}

	images, err := s.images.DeleteByPropertyID(ctx, pid)
	if err != nil {
		return err
	}
	places, err := s.places.deleteByProperty(ctx, pid)
	if err != nil {
		return err
	}
	traces, err := s.traces.DeleteByPropertyID(ctx, pid)
	if err != nil {
		return err
	}
	logger.GlobalLogger.Printf("Deleted property %s with %d images, %d places, %d traces", id, images, places, traces)

	publish(ctx, s.publisher, events.PropertyDeleted, id, nil)
	invalidateProperty(ctx, s.cache, id)
	return nil
}
