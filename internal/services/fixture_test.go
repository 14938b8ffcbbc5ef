package services

import (
	"context"
	"testing"

	"realestate-catalog/internal/locks"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/transformers"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/events"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	properties *fakeProperties
	owners     *fakeOwners
	images     *fakeImages
	places     *fakePlaces
	traces     *fakeTraces
	cache      *fakeCache
	host       *fakeHost

	search      *PropertySearchService
	propertySvc *PropertyService
	ownerSvc    *OwnerService
	imageSvc    *ImageService
	placeSvc    *PlaceService
	traceSvc    *TraceService
	maintenance *MaintenanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		properties: newFakeProperties(),
		owners:     newFakeOwners(),
		images:     newFakeImages(),
		places:     newFakePlaces(),
		traces:     newFakeTraces(),
		cache:      newFakeCache(),
		host:       &fakeHost{},
	}
	publisher := events.NewNopPublisher()
	propertyValidator := validators.NewPropertyValidator(100)

	hydrator := NewHydrator(f.owners, f.images, f.places)
	f.search = NewPropertySearchService(f.properties, f.owners, f.places, hydrator, f.cache, propertyValidator,
		SearchSettings{DefaultPageSize: 10})
	f.placeSvc = NewPlaceService(f.places, f.properties, f.cache, validators.NewPlaceValidator(), publisher)
	f.imageSvc = NewImageService(f.images, f.properties, f.host, locks.NewKeyed(), f.cache, validators.NewImageValidator(), publisher)
	f.propertySvc = NewPropertyService(f.properties, f.owners, f.traces, f.placeSvc, f.imageSvc, f.cache, propertyValidator, publisher)
	f.ownerSvc = NewOwnerService(f.owners, f.properties, f.cache, validators.NewOwnerValidator(), publisher)
	f.traceSvc = NewTraceService(f.traces, f.properties, validators.NewTraceValidator(), publisher)
	f.maintenance = NewMaintenanceService(f.properties, f.images, f.places, f.traces, f.placeSvc, f.cache,
		transformers.NewAddressTransformer())
	return f
}

func (f *fixture) addOwner(t *testing.T, name, lastName string) models.Owner {
	t.Helper()
	o := models.Owner{Name: name, LastName: lastName}
	require.NoError(t, f.owners.Create(context.Background(), &o))
	return o
}

func (f *fixture) addProperty(t *testing.T, name string, price float64, owner primitive.ObjectID) models.Property {
	t.Helper()
	p := models.Property{Name: name, Address: name + " street", Price: price, IdOwner: owner}
	require.NoError(t, f.properties.Create(context.Background(), &p))
	return p
}

func (f *fixture) addPlace(t *testing.T, pid primitive.ObjectID, tag, value string) {
	t.Helper()
	require.NoError(t, f.places.Create(context.Background(), &models.PropertyPlace{IdProperty: pid, Name: tag, Value: value, PlaceType: tag}))
}

func (f *fixture) addImage(t *testing.T, pid primitive.ObjectID, enabled, main bool) models.PropertyImage {
	t.Helper()
	img := models.PropertyImage{IdProperty: pid, Enabled: enabled, IsMain: main, CloudinaryPublicId: primitive.NewObjectID().Hex()}
	require.NoError(t, f.images.Create(context.Background(), &img))
	return img
}

func ptr[T any](v T) *T { return &v }
