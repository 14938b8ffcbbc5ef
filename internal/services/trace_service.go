package services

import (
	"context"
	"strings"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/events"
)

// TraceService keeps the sale history of properties.
type TraceService struct {
	traces     repositories.TraceRepository
	properties repositories.PropertyRepository
	validator  validators.TraceValidator
	publisher  events.Publisher
}

func NewTraceService(traces repositories.TraceRepository, properties repositories.PropertyRepository, validator validators.TraceValidator, publisher events.Publisher) *TraceService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &TraceService{traces: traces, properties: properties, validator: validator, publisher: publisher}
}

func (s *TraceService) GetAll(ctx context.Context) ([]models.PropertyTrace, error) {
	return s.traces.GetAll(ctx)
}

func (s *TraceService) GetByID(ctx context.Context, id string) (*models.PropertyTrace, error) {
	trace, err := s.traces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		return nil, apperrors.NotFound("trace", id)
	}
	return trace, nil
}

// GetByProperty lists a property's sales, most recent first.
func (s *TraceService) GetByProperty(ctx context.Context, propertyID string) ([]models.PropertyTrace, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return nil, err
	}
	return s.traces.FindByPropertyID(ctx, pid)
}

func (s *TraceService) Create(ctx context.Context, in *models.TraceInput) (*models.PropertyTrace, error) {
	if err := s.validator.ValidateCreate(in); err != nil {
		return nil, err
	}
	propertyID := strings.TrimSpace(*in.IdProperty)
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

	trace := &models.PropertyTrace{IdProperty: pid}
	applyTraceInput(trace, in)
	if err := s.traces.Create(ctx, trace); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.TraceRecorded, propertyID, trace)
	return trace, nil
}

// Update applies the non-nil fields of in. The owning property cannot change.
func (s *TraceService) Update(ctx context.Context, id string, in *models.TraceInput) (*models.PropertyTrace, error) {
	if err := s.validator.ValidateUpdate(in); err != nil {
		return nil, err
	}
	trace, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IdProperty != nil && strings.TrimSpace(*in.IdProperty) != trace.IdProperty.Hex() {
		return nil, apperrors.Validation("idProperty of a trace cannot change")
	}
	applyTraceInput(trace, in)
	n, err := s.traces.Update(ctx, trace)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("trace", id)
	}
	return trace, nil
}

func (s *TraceService) Delete(ctx context.Context, id string) error {
	n, err := s.traces.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("trace", id)
	}
	return nil
}

// DeleteByProperty removes the whole sale history of a property.
func (s *TraceService) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	pid, err := repositories.ParseID(propertyID)
	if err != nil {
		return 0, err
	}
	n, err := s.traces.DeleteByPropertyID(ctx, pid)
	if err != nil {
		return 0, err
	}
	publish(ctx, s.publisher, events.TracesDeleted, propertyID, map[string]int64{"deleted": n})
	return n, nil
}

func applyTraceInput(trace *models.PropertyTrace, in *models.TraceInput) {
	if in.Name != nil {
		trace.Name = strings.TrimSpace(*in.Name)
	}
	if in.DateSale != nil {
		trace.DateSale = in.DateSale.UTC()
	}
	if in.Value != nil {
		trace.Value = *in.Value
	}
	if in.Tax != nil {
		trace.Tax = *in.Tax
	}
}
