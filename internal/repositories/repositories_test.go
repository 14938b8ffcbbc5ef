package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier, bad)
	}
}

func TestMalformedIDNeverReachesStore(t *testing.T) {
	// A nil database leaves the collection nil; any store call would panic.
	props := NewPropertyRepository(nil)
	ctx := context.Background()

	_, err := props.GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)

	n, err := props.Delete(ctx, "also-bad")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
	assert.Zero(t, n)

	_, err = NewOwnerRepository(nil).GetByID(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
	_, err = NewImageRepository(nil).Delete(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
	_, err = NewTraceRepository(nil).GetByID(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
}

func TestEmptyMembershipQueriesSkipStore(t *testing.T) {
	ctx := context.Background()

	props, err := NewPropertyRepository(nil).FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, props)

	owners, err := NewOwnerRepository(nil).FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, owners)

	images, err := NewImageRepository(nil).FindByPropertyIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, images)

	places, err := NewPlaceRepository(nil).FindByPropertyIDs(ctx, []primitive.ObjectID{})
	require.NoError(t, err)
	assert.Empty(t, places)

	ids, err := NewPlaceRepository(nil).MatchAnyPropertyIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFailClassifiesErrors(t *testing.T) {
	r := newMongoRepository[models.Owner, *models.Owner](nil, models.OwnerCollection)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, r.fail("insert", dup), apperrors.ErrConflict)

	boom := errors.New("connection reset")
	err := r.fail("find", boom)
	assert.ErrorIs(t, err, apperrors.ErrDependencyFailure)
	assert.ErrorIs(t, err, boom)
}

type memoryStore struct {
	values  map[string][]byte
	sets    map[string][]string
	counter map[string]int64
	getErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}, sets: map[string][]string{}, counter: map[string]int64{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := cache.Encode(value)
	if err != nil {
		return err
	}
	m.values[key] = data
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	data, ok := m.values[key]
	if !ok {
		return cache.ErrMiss
	}
	return cache.Decode(data, dest)
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryStore) Counter(_ context.Context, key string) (int64, error) {
	return m.counter[key], nil
}

func (m *memoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.counter[key]++
	return m.counter[key], nil
}

func (m *memoryStore) AddCacheKeyToPropertySet(_ context.Context, propertyID, cacheKey string, _ time.Duration) error {
	setKey := cache.PropertyKeysSetKey(propertyID)
	m.sets[setKey] = append(m.sets[setKey], cacheKey)
	return nil
}

func (m *memoryStore) InvalidatePropertyCacheKeys(ctx context.Context, propertyID string) (int64, error) {
	setKey := cache.PropertyKeysSetKey(propertyID)
	_ = m.Delete(ctx, m.sets[setKey]...)
	delete(m.sets, setKey)
	return m.Incr(ctx, cache.SearchGenerationKey())
}

func TestPropertyCacheRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := NewPropertyCache(store)

	p := &models.Property{Name: "Casa", Price: 10, Owner: &models.Owner{Name: "Ana"}}
	p.PrepareInsert(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	id := p.ID.Hex()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	miss, err := c.GetProperty(ctx, gen, id)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.SetProperty(ctx, gen, p, time.Minute))
	hit, err := c.GetProperty(ctx, gen, id)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, p.ID, hit.ID)
	assert.Equal(t, "Ana", hit.Owner.Name)

	keyBefore, err := c.SearchKey(ctx, models.PropertyFilter{Page: 1})
	require.NoError(t, err)

	require.NoError(t, c.InvalidateProperty(ctx, id))
	gone, err := c.GetProperty(ctx, gen, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	keyAfter, err := c.SearchKey(ctx, models.PropertyFilter{Page: 1})
	require.NoError(t, err)
	assert.NotEqual(t, keyBefore, keyAfter)
}

func TestPropertyCacheDetailsFollowGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewPropertyCache(newMemoryStore())

	p := &models.Property{Name: "Casa"}
	p.PrepareInsert(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	before, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.InvalidateSearches(ctx))
	require.NoError(t, c.SetProperty(ctx, before, p, time.Minute))

	after, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before)

	got, err := c.GetProperty(ctx, after, p.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got, "entries written under a retired generation are never read")
}

func TestPropertyCacheSearch(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := NewPropertyCache(store)

	key, err := c.SearchKey(ctx, models.PropertyFilter{Name: "x", Page: 1, PageSize: 10})
	require.NoError(t, err)

	result := &models.PagedResult[models.Property]{
		Items: []models.Property{{Name: "x1"}},
		Meta:  models.PaginationMeta{TotalCount: 1, Page: 1, PageSize: 10, TotalPages: 1},
	}
	require.NoError(t, c.SetSearch(ctx, key, result, time.Minute))

	got, err := c.GetSearch(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, result.Meta, got.Meta)
	assert.Equal(t, "x1", got.Items[0].Name)

	require.NoError(t, c.InvalidateSearches(ctx))
	next, err := c.SearchKey(ctx, models.PropertyFilter{Name: "x", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.NotEqual(t, key, next)
}

func TestPropertyCachePropagatesStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.getErr = cache.NewCacheError("get", errors.New("down"), true)
	_, err := NewPropertyCache(store).GetProperty(context.Background(), 0, "abc")
	assert.Error(t, err)
}

func TestNopPropertyCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNopPropertyCache()
	require.NoError(t, c.SetProperty(ctx, 0, &models.Property{}, time.Minute))
	p, err := c.GetProperty(ctx, 0, "x")
	assert.NoError(t, err)
	assert.Nil(t, p)
	r, err := c.GetSearch(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestNameFilterShape(t *testing.T) {
	f := nameFilter("Ana R.")
	clauses, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, 3)

	escaped := primitive.Regex{Pattern: `Ana R\.`, Options: "i"}
	assert.Equal(t, bson.M{"Name": bson.M{"$regex": escaped}}, clauses[0])
	assert.Equal(t, bson.M{"LastName": bson.M{"$regex": escaped}}, clauses[1])

	match := clauses[2].(bson.M)["$expr"].(bson.M)["$regexMatch"].(bson.M)
	assert.Equal(t, `Ana R\.`, match["regex"])
	assert.Equal(t, "i", match["options"])

	concat := match["input"].(bson.M)["$trim"].(bson.M)["input"].(bson.M)["$concat"].(bson.A)
	assert.Equal(t, bson.A{
		bson.M{"$ifNull": bson.A{"$Name", ""}},
		" ",
		bson.M{"$ifNull": bson.A{"$LastName", ""}},
	}, concat)

	re := regexp.MustCompile("(?i)" + match["regex"].(string))
	assert.True(t, re.MatchString("ana r. gómez"))
	assert.False(t, re.MatchString("Ana Ruiz"), "the dot is matched literally")
}

func TestMainImageFilterShapes(t *testing.T) {
	pid, iid := primitive.NewObjectID(), primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": iid, "IdProperty": pid, "Enabled": true}, markMainFilter(pid, iid))
	assert.Equal(t, bson.M{"IdProperty": pid, "IsMain": true, "_id": bson.M{"$ne": iid}}, clearMainFilter(pid, iid))
}
