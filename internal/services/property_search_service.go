package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/query"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

type SearchSettings struct {
	DefaultPageSize int
	CacheTTL        time.Duration
}

// PropertySearchService answers every read of hydrated properties.
type PropertySearchService struct {
	properties repositories.PropertyRepository
	owners     repositories.OwnerRepository
	places     repositories.PlaceRepository
	hydrator   *Hydrator
	cache      repositories.PropertyCache
	validator  validators.PropertyValidator
	settings   SearchSettings
	group      singleflight.Group
}

func NewPropertySearchService(
	properties repositories.PropertyRepository,
	owners repositories.OwnerRepository,
	places repositories.PlaceRepository,
	hydrator *Hydrator,
	cache repositories.PropertyCache,
	validator validators.PropertyValidator,
	settings SearchSettings,
) *PropertySearchService {
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	return &PropertySearchService{
		properties: properties,
		owners:     owners,
		places:     places,
		hydrator:   hydrator,
		cache:      cache,
		validator:  validator,
		settings:   settings,
	}
}

// SearchProperties runs a filtered, sorted and paginated search and returns
// the hydrated page. Location and owner-name criteria are resolved into id
// sets first so the store count and window cover exactly the matching
// properties; the relational filter then re-checks the hydrated page.
func (s *PropertySearchService) SearchProperties(ctx context.Context, f models.PropertyFilter) (*models.PagedResult[models.Property], error) {
	f.ApplyDefaults(s.settings.DefaultPageSize)
	if err := s.validator.ValidateSearch(&f); err != nil {
		return nil, err
	}

	cacheKey, err := s.cache.SearchKey(ctx, f)
	if err != nil {
		logger.GlobalLogger.Printf("Search cache unavailable: %v", err)
	}
	if cacheKey != "" {
		if cached, err := s.cache.GetSearch(ctx, cacheKey); err == nil && cached != nil {
			setDataSource(ctx, SourceCache, true)
			return cached, nil
		}
	}
	setDataSource(ctx, SourceDatabase, false)

	filter, empty, err := s.compile(ctx, f)
	if err != nil {
		return nil, err
	}
	if empty {
		return pagedResult([]models.Property{}, 0, f.Page, f.PageSize), nil
	}

	total, err := s.properties.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := query.Paginate(f.Page, f.PageSize, total)

	props := []models.Property{}
	if page.Skip < total {
		props, err = s.properties.Find(ctx, filter, query.ResolveSort(f.SortBy, f.SortDirection), page.Skip, page.Limit)
		if err != nil {
			return nil, err
		}
		if err := s.hydrator.Hydrate(ctx, props); err != nil {
			return nil, err
		}
	}

	kept, drops := query.FilterRelational(props, f)
	if drops.Total() > 0 {
		logger.GlobalLogger.Printf("Relational filter dropped %d of %d properties on page %d", drops.Total(), len(props), f.Page)
		metrics.RelationalFilterDropsTotal.WithLabelValues("location").Add(float64(drops.Location))
		metrics.RelationalFilterDropsTotal.WithLabelValues("owner_name").Add(float64(drops.OwnerName))
		total -= int64(drops.Total())
	}

	result := pagedResult(kept, total, f.Page, f.PageSize)
	if cacheKey != "" {
		if err := s.cache.SetSearch(ctx, cacheKey, result, s.settings.CacheTTL); err != nil {
			logger.GlobalLogger.Printf("Failed to cache search %s: %v", cacheKey, err)
		}
	}
	return result, nil
}

// compile builds the store predicate for f. empty is true when a relational
// criterion matches nothing, so no property can qualify.
func (s *PropertySearchService) compile(ctx context.Context, f models.PropertyFilter) (bson.D, bool, error) {
	filter := query.CompileFilter(f)

	if terms := f.LocationTerms(); len(terms) > 0 {
		var ids []primitive.ObjectID
		first := true
		for tag, term := range terms {
			matched, err := s.places.MatchPropertyIDs(ctx, tag, term)
			if err != nil {
				return nil, false, err
			}
			if first {
				ids, first = matched, false
			} else {
				ids = intersect(ids, matched)
			}
			if len(ids) == 0 {
				return nil, true, nil
			}
		}
		filter = query.RestrictIDs(filter, ids)
	}

	if name := strings.TrimSpace(f.OwnerName); name != "" {
		ownerIDs, err := s.owners.MatchIDsByName(ctx, name)
		if err != nil {
			return nil, false, err
		}
		if len(ownerIDs) == 0 {
			return nil, true, nil
		}
		filter = query.RestrictOwners(filter, ownerIDs)
	}
	return filter, false, nil
}

func intersect(a, b []primitive.ObjectID) []primitive.ObjectID {
	in := make(map[primitive.ObjectID]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	out := make([]primitive.ObjectID, 0, len(a))
	for _, id := range a {
		if in[id] {
			out = append(out, id)
			delete(in, id)
		}
	}
	return out
}

func pagedResult(items []models.Property, total int64, page, pageSize int) *models.PagedResult[models.Property] {
	if total < 0 {
		total = 0
	}
	p := query.Paginate(page, pageSize, total)
	return &models.PagedResult[models.Property]{
		Items: items,
		Meta: models.PaginationMeta{
			TotalCount:      total,
			Page:            page,
			PageSize:        pageSize,
			TotalPages:      p.TotalPages,
			HasNextPage:     p.HasNextPage,
			HasPreviousPage: p.HasPreviousPage,
		},
	}
}

// GetPropertyWithDetails returns the hydrated property. Concurrent misses for
// the same id share one store round-trip.
func (s *PropertySearchService) GetPropertyWithDetails(ctx context.Context, id string) (*models.Property, error) {
	if _, err := repositories.ParseID(id); err != nil {
		return nil, err
	}
	// Details are cached under the generation read before the store, so a
	// write landing mid-flight leaves this result under a retired key.
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		logger.GlobalLogger.Printf("Failed to read cache generation: %v", genErr)
	} else if cached, err := s.cache.GetProperty(ctx, generation, id); err == nil && cached != nil {
		setDataSource(ctx, SourceCache, true)
		return cached, nil
	}
	setDataSource(ctx, SourceDatabase, false)

	v, err, _ := s.group.Do(fmt.Sprintf("%s@%d", id, generation), func() (interface{}, error) {
		property, err := s.properties.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if property == nil {
			return nil, apperrors.NotFound("property", id)
		}
		if err := s.hydrator.HydrateOne(ctx, property); err != nil {
			return nil, err
		}
		if genErr == nil {
			if err := s.cache.SetProperty(ctx, generation, property, PropertyTTL); err != nil {
				logger.GlobalLogger.Printf("Failed to cache property %s: %v", id, err)
			}
		}
		return property, nil
	})
	if err != nil {
		return nil, err
	}
	property := *v.(*models.Property)
	return &property, nil
}

// GetPropertiesByOwner lists the hydrated properties of an owner.
func (s *PropertySearchService) GetPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	oid, err := repositories.ParseID(ownerID)
	if err != nil {
		return nil, err
	}
	setDataSource(ctx, SourceDatabase, false)
	props, err := s.properties.FindByOwner(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := s.hydrator.Hydrate(ctx, props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetPropertiesByPriceRange lists hydrated properties priced within [min, max].
// Either bound may be omitted.
func (s *PropertySearchService) GetPropertiesByPriceRange(ctx context.Context, min, max *float64) ([]models.Property, error) {
	if err := s.validator.ValidatePriceRange(min, max); err != nil {
		return nil, err
	}
	setDataSource(ctx, SourceDatabase, false)
	filter := query.CompileFilter(models.PropertyFilter{MinPrice: min, MaxPrice: max})
	props, err := s.properties.Find(ctx, filter, query.ResolveSort("price", "asc"), 0, 0)
	if err != nil {
		return nil, err
	}
	if err := s.hydrator.Hydrate(ctx, props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetPropertiesByLocation lists hydrated properties having a place that
// matches any of the given city, state or country terms.
func (s *PropertySearchService) GetPropertiesByLocation(ctx context.Context, city, state, country string) ([]models.Property, error) {
	f := models.PropertyFilter{City: city, State: state, Country: country}
	terms := f.LocationTerms()
	if len(terms) == 0 {
		return nil, apperrors.Validation("at least one of city, state or country is required")
	}
	setDataSource(ctx, SourceDatabase, false)

	ids, err := s.places.MatchAnyPropertyIDs(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	props, err := s.properties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.hydrator.Hydrate(ctx, props); err != nil {
		return nil, err
	}
	return props, nil
}
