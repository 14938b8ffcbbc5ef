package services

import (
	"context"

	"realestate-catalog/internal/models"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Hydrator attaches owners, images and places to a batch of properties. It
// issues exactly one membership query per related collection regardless of
// the batch size, and never writes.
type Hydrator struct {
	owners repositories.OwnerRepository
	images repositories.ImageRepository
	places repositories.PlaceRepository
}

func NewHydrator(owners repositories.OwnerRepository, images repositories.ImageRepository, places repositories.PlaceRepository) *Hydrator {
	return &Hydrator{owners: owners, images: images, places: places}
}

// Hydrate fills Owner, Images and Places of every property in place. A
// property whose owner no longer exists keeps a nil Owner. Any failed
// query fails the whole batch and leaves props untouched.
func (h *Hydrator) Hydrate(ctx context.Context, props []models.Property) error {
	if len(props) == 0 {
		return nil
	}
	metrics.HydrationBatchSize.Observe(float64(len(props)))

	propertyIDs := make([]primitive.ObjectID, 0, len(props))
	ownerIDs := make([]primitive.ObjectID, 0, len(props))
	seenOwner := make(map[primitive.ObjectID]bool, len(props))
	for i := range props {
		propertyIDs = append(propertyIDs, props[i].ID)
		if id := props[i].IdOwner; !id.IsZero() && !seenOwner[id] {
			seenOwner[id] = true
			ownerIDs = append(ownerIDs, id)
		}
	}

	var (
		owners []models.Owner
		images []models.PropertyImage
		places []models.PropertyPlace
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owners, err = h.owners.FindByIDs(gctx, ownerIDs)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = h.images.FindByPropertyIDs(gctx, propertyIDs)
		return err
	})
	g.Go(func() error {
		var err error
		places, err = h.places.FindByPropertyIDs(gctx, propertyIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	ownerByID := make(map[primitive.ObjectID]*models.Owner, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = &owners[i]
	}
	imagesByProperty := make(map[primitive.ObjectID][]models.PropertyImage)
	for _, img := range images {
		imagesByProperty[img.IdProperty] = append(imagesByProperty[img.IdProperty], img)
	}
	placesByProperty := make(map[primitive.ObjectID][]models.PropertyPlace)
	for _, pl := range places {
		placesByProperty[pl.IdProperty] = append(placesByProperty[pl.IdProperty], pl)
	}

	for i := range props {
		p := &props[i]
		p.Owner = ownerByID[p.IdOwner]
		p.Images = imagesByProperty[p.ID]
		p.Places = placesByProperty[p.ID]
	}
	return nil
}

// HydrateOne is Hydrate for a single property.
func (h *Hydrator) HydrateOne(ctx context.Context, p *models.Property) error {
	batch := []models.Property{*p}
	if err := h.Hydrate(ctx, batch); err != nil {
		return err
	}
	*p = batch[0]
	return nil
}
