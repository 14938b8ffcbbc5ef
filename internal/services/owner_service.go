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

type OwnerService struct {
	owners     repositories.OwnerRepository
	properties repositories.PropertyRepository
	cache      repositories.PropertyCache
	validator  validators.OwnerValidator
	publisher  events.Publisher
}

func NewOwnerService(owners repositories.OwnerRepository, properties repositories.PropertyRepository, cache repositories.PropertyCache, validator validators.OwnerValidator, publisher events.Publisher) *OwnerService {
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &OwnerService{owners: owners, properties: properties, cache: cache, validator: validator, publisher: publisher}
}

func (s *OwnerService) GetAll(ctx context.Context) ([]models.Owner, error) {
	return s.owners.GetAll(ctx)
}

func (s *OwnerService) GetByID(ctx context.Context, id string) (*models.Owner, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperrors.NotFound("owner", id)
	}
	return owner, nil
}

func (s *OwnerService) GetByEmail(ctx context.Context, email string) (*models.Owner, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	owner, err := s.owners.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperrors.NotFound("owner", email)
	}
	return owner, nil
}

// SearchByName matches the first, last or full name case-insensitively.
func (s *OwnerService) SearchByName(ctx context.Context, name string) ([]models.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	return s.owners.SearchByName(ctx, name)
}

func (s *OwnerService) checkEmail(ctx context.Context, email string, excludeID primitive.ObjectID) error {
	if email == "" {
		return nil
	}
	taken, err := s.owners.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict("owner", "email", email)
	}
	return nil
}

func (s *OwnerService) Create(ctx context.Context, in *models.OwnerInput) (*models.Owner, error) {
	if err := s.validator.ValidateCreate(in); err != nil {
		return nil, err
	}
	owner := &models.Owner{}
	applyOwnerInput(owner, in)
	if err := s.checkEmail(ctx, owner.Email, primitive.NilObjectID); err != nil {
		return nil, err
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.OwnerCreated, owner.ID.Hex(), owner)
	return owner, nil
}

// Update applies the non-nil fields of in.
func (s *OwnerService) Update(ctx context.Context, id string, in *models.OwnerInput) (*models.Owner, error) {
	if err := s.validator.ValidateUpdate(in); err != nil {
		return nil, err
	}
	owner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousEmail := owner.Email
	applyOwnerInput(owner, in)
	if !strings.EqualFold(owner.Email, previousEmail) {
		if err := s.checkEmail(ctx, owner.Email, owner.ID); err != nil {
			return nil, err
		}
	}

	n, err := s.owners.Update(ctx, owner)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("owner", id)
	}
	publish(ctx, s.publisher, events.OwnerUpdated, id, owner)
	s.invalidateHoldings(ctx, owner.ID)
	return owner, nil
}

// Delete removes the owner only. Properties keep their IdOwner and hydrate
// without an owner.
func (s *OwnerService) Delete(ctx context.Context, id string) error {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return err
	}
	n, err := s.owners.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("owner", id)
	}
	publish(ctx, s.publisher, events.OwnerDeleted, id, nil)
	s.invalidateHoldings(ctx, oid)
	return nil
}

// invalidateHoldings drops the cached details of every property of the
// owner, since hydrated properties embed it.
func (s *OwnerService) invalidateHoldings(ctx context.Context, ownerID primitive.ObjectID) {
	props, err := s.properties.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to list properties of owner %s: %v", ownerID.Hex(), err)
	}
	for _, p := range props {
		if err := s.cache.InvalidateProperty(ctx, p.ID.Hex()); err != nil {
			logger.GlobalLogger.Errorf("Failed to invalidate property %s: %v", p.ID.Hex(), err)
		}
	}
	if err := s.cache.InvalidateSearches(ctx); err != nil {
		logger.GlobalLogger.Errorf("Failed to invalidate searches: %v", err)
	}
}

func applyOwnerInput(owner *models.Owner, in *models.OwnerInput) {
	if in.Name != nil {
		owner.Name = strings.TrimSpace(*in.Name)
	}
	if in.LastName != nil {
		owner.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		owner.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Photo != nil {
		owner.Photo = strings.TrimSpace(*in.Photo)
	}
	if in.Email != nil {
		owner.Email = strings.TrimSpace(*in.Email)
	}
	if in.Birthday != nil {
		owner.Birthday = in.Birthday
	}
}
