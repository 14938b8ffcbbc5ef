package services

import (
	"context"

	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/transformers"
	"realestate-catalog/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// OrphanReport lists, per related collection, the property ids that are
// referenced but no longer exist.
type OrphanReport struct {
	Images []primitive.ObjectID `json:"images"`
	Places []primitive.ObjectID `json:"places"`
	Traces []primitive.ObjectID `json:"traces"`
}

func (r OrphanReport) Total() int {
	return len(r.Images) + len(r.Places) + len(r.Traces)
}

// AddressReport counts the properties touched by NormalizeAddresses.
type AddressReport struct {
	Scanned    int `json:"scanned"`
	Normalized int `json:"normalized"`
	Backfilled int `json:"backfilled"`
	Failed     int `json:"failed"`
}

type MaintenanceService struct {
	properties repositories.PropertyRepository
	images     repositories.ImageRepository
	places     repositories.PlaceRepository
	traces     repositories.TraceRepository
	placeSvc   *PlaceService
	cache      repositories.PropertyCache
	addrTrans  transformers.AddressTransformer
}

func NewMaintenanceService(
	properties repositories.PropertyRepository,
	images repositories.ImageRepository,
	places repositories.PlaceRepository,
	traces repositories.TraceRepository,
	placeSvc *PlaceService,
	cache repositories.PropertyCache,
	addrTrans transformers.AddressTransformer,
) *MaintenanceService {
	if cache == nil {
		cache = repositories.NewNopPropertyCache()
	}
	return &MaintenanceService{
		properties: properties,
		images:     images,
		places:     places,
		traces:     traces,
		placeSvc:   placeSvc,
		cache:      cache,
		addrTrans:  addrTrans,
	}
}

// FindOrphans reports images, places and traces whose property is gone.
func (s *MaintenanceService) FindOrphans(ctx context.Context) (*OrphanReport, error) {
	var imageRefs, placeRefs, traceRefs []primitive.ObjectID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		imageRefs, err = s.images.DistinctPropertyIDs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		placeRefs, err = s.places.DistinctPropertyIDs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		traceRefs, err = s.traces.DistinctPropertyIDs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]primitive.ObjectID, 0, len(imageRefs)+len(placeRefs)+len(traceRefs))
	seen := make(map[primitive.ObjectID]bool)
	for _, refs := range [][]primitive.ObjectID{imageRefs, placeRefs, traceRefs} {
		for _, id := range refs {
			if !seen[id] {
				seen[id] = true
				all = append(all, id)
			}
		}
	}
	existing, err := s.properties.ExistingIDs(ctx, all)
	if err != nil {
		return nil, err
	}

	missing := func(refs []primitive.ObjectID) []primitive.ObjectID {
		out := []primitive.ObjectID{}
		for _, id := range refs {
			if !existing[id] {
				out = append(out, id)
			}
		}
		return out
	}
	return &OrphanReport{
		Images: missing(imageRefs),
		Places: missing(placeRefs),
		Traces: missing(traceRefs),
	}, nil
}

// NormalizeAddresses collapses stray whitespace in every stored address. With
// backfill set, location tags a property lacks are filled from the
// "street, city, state, country" parts of its address; existing places are
// never overwritten. A failing property is logged and skipped.
func (s *MaintenanceService) NormalizeAddresses(ctx context.Context, backfill bool) (*AddressReport, error) {
	properties, err := s.properties.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var existing map[primitive.ObjectID]map[string]bool
	if backfill {
		if existing, err = s.placeTags(ctx, properties); err != nil {
			return nil, err
		}
	}

	report := &AddressReport{Scanned: len(properties)}
	for i := range properties {
		property := &properties[i]
		touched := false

		if normalized := s.addrTrans.NormalizeAddressComponent(property.Address); normalized != property.Address {
			property.Address = normalized
			if _, err := s.properties.Update(ctx, property); err != nil {
				logger.GlobalLogger.Errorf("Failed to normalize address of property %s: %v", property.ID.Hex(), err)
				report.Failed++
				continue
			}
			report.Normalized++
			touched = true
		}

		if backfill {
			missing := missingLocations(s.addrTrans.ParseAddress(property.Address), existing[property.ID])
			if len(missing) > 0 {
				if err := s.placeSvc.upsertLocations(ctx, property.ID, missing, nil, nil); err != nil {
					logger.GlobalLogger.Errorf("Failed to backfill places of property %s: %v", property.ID.Hex(), err)
					report.Failed++
					continue
				}
				report.Backfilled++
				touched = true
			}
		}

		if touched {
			if err := s.cache.InvalidateProperty(ctx, property.ID.Hex()); err != nil {
				logger.GlobalLogger.Errorf("Failed to invalidate property %s: %v", property.ID.Hex(), err)
			}
		}
	}

	if report.Normalized+report.Backfilled > 0 {
		if err := s.cache.InvalidateSearches(ctx); err != nil {
			logger.GlobalLogger.Errorf("Failed to invalidate searches: %v", err)
		}
	}
	logger.GlobalLogger.Printf("Address maintenance: scanned=%d normalized=%d backfilled=%d failed=%d",
		report.Scanned, report.Normalized, report.Backfilled, report.Failed)
	return report, nil
}

func (s *MaintenanceService) placeTags(ctx context.Context, properties []models.Property) (map[primitive.ObjectID]map[string]bool, error) {
	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	places, err := s.places.FindByPropertyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags := make(map[primitive.ObjectID]map[string]bool, len(properties))
	for _, pl := range places {
		if tags[pl.IdProperty] == nil {
			tags[pl.IdProperty] = make(map[string]bool)
		}
		tags[pl.IdProperty][models.CanonicalTag(pl.Name)] = true
	}
	return tags, nil
}

func missingLocations(addr transformers.ParsedAddress, have map[string]bool) map[string]string {
	missing := make(map[string]string, 3)
	for tag, value := range map[string]string{
		models.PlaceCity:    addr.City,
		models.PlaceState:   addr.State,
		models.PlaceCountry: addr.Country,
	} {
		if value != "" && !have[tag] {
			missing[tag] = value
		}
	}
	return missing
}
