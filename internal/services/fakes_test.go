package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"realestate-catalog/internal/models"
	"realestate-catalog/internal/query"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/pkg/imagehost"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo is an in-memory collection that counts calls per operation and can
// be told to fail an operation.
type memRepo[T any, PT interface {
	*T
	models.Document
}] struct {
	mu     sync.Mutex
	docs   []T
	calls  map[string]int
	failOn map[string]error
}

func newMemRepo[T any, PT interface {
	*T
	models.Document
}]() *memRepo[T, PT] {
	return &memRepo[T, PT]{calls: map[string]int{}, failOn: map[string]error{}}
}

func (r *memRepo[T, PT]) hit(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	return r.failOn[op]
}

func (r *memRepo[T, PT]) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *memRepo[T, PT]) fail(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[op] = err
}

func (r *memRepo[T, PT]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.docs))
	copy(out, r.docs)
	return out
}

func (r *memRepo[T, PT]) filter(keep func(*T) bool) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []T{}
	for i := range r.docs {
		if keep(&r.docs[i]) {
			out = append(out, r.docs[i])
		}
	}
	return out
}

func (r *memRepo[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := r.hit("get"); err != nil {
		return nil, err
	}
	found := r.filter(func(d *T) bool { return PT(d).GetID() == oid })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *memRepo[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	if err := r.hit("get_all"); err != nil {
		return nil, err
	}
	return r.snapshot(), nil
}

func (r *memRepo[T, PT]) Create(ctx context.Context, doc *T) error {
	if err := r.hit("create"); err != nil {
		return err
	}
	PT(doc).PrepareInsert(time.Now().UTC())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *memRepo[T, PT]) Update(ctx context.Context, doc *T) (int64, error) {
	if err := r.hit("update"); err != nil {
		return 0, err
	}
	PT(doc).PrepareUpdate(time.Now().UTC())
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if PT(&r.docs[i]).GetID() == PT(doc).GetID() {
			r.docs[i] = *doc
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memRepo[T, PT]) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return 0, err
	}
	if err := r.hit("delete"); err != nil {
		return 0, err
	}
	return r.deleteWhere(func(d *T) bool { return PT(d).GetID() == oid }), nil
}

func (r *memRepo[T, PT]) deleteWhere(match func(*T) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.docs[:0]
	var n int64
	for i := range r.docs {
		if match(&r.docs[i]) {
			n++
			continue
		}
		kept = append(kept, r.docs[i])
	}
	r.docs = kept
	return n
}

// update applies fn to every matching document and reports how many matched.
func (r *memRepo[T, PT]) update(match func(*T) bool, fn func(*T)) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.docs {
		if match(&r.docs[i]) {
			fn(&r.docs[i])
			n++
		}
	}
	return n
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// fakeProperties evaluates the predicates produced by the query package.
type fakeProperties struct {
	*memRepo[models.Property, *models.Property]
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{newMemRepo[models.Property, *models.Property]()}
}

func matchRegex(v interface{}, s string) bool {
	re := v.(bson.M)["$regex"].(primitive.Regex)
	return regexp.MustCompile("(?" + re.Options + ")" + re.Pattern).MatchString(s)
}

func matchIn(v interface{}, id primitive.ObjectID) bool {
	for _, candidate := range v.(bson.M)["$in"].([]primitive.ObjectID) {
		if candidate == id {
			return true
		}
	}
	return false
}

func matches(p *models.Property, filter bson.D) bool {
	for _, e := range filter {
		switch e.Key {
		case "Name":
			if !matchRegex(e.Value, p.Name) {
				return false
			}
		case "Address":
			if !matchRegex(e.Value, p.Address) {
				return false
			}
		case "Price":
			bounds := e.Value.(bson.M)
			if min, ok := bounds["$gte"]; ok && p.Price < min.(float64) {
				return false
			}
			if max, ok := bounds["$lte"]; ok && p.Price > max.(float64) {
				return false
			}
		case "Year":
			if p.Year == nil || *p.Year != e.Value.(int) {
				return false
			}
		case "_id":
			if !matchIn(e.Value, p.ID) {
				return false
			}
		case "IdOwner":
			if !matchIn(e.Value, p.IdOwner) {
				return false
			}
		default:
			panic("unexpected filter key " + e.Key)
		}
	}
	return true
}

func compareBy(a, b *models.Property, field string) int {
	switch field {
	case "Name":
		return compareStrings(a.Name, b.Name)
	case "Address":
		return compareStrings(a.Address, b.Address)
	case "Price":
		return compareFloats(a.Price, b.Price)
	default:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	return a.Compare(b)
}

func (r *fakeProperties) Count(ctx context.Context, filter bson.D) (int64, error) {
	if err := r.hit("count"); err != nil {
		return 0, err
	}
	return int64(len(r.filter(func(p *models.Property) bool { return matches(p, filter) }))), nil
}

func (r *fakeProperties) Find(ctx context.Context, filter, order bson.D, skip, limit int64) ([]models.Property, error) {
	if err := r.hit("find"); err != nil {
		return nil, err
	}
	found := r.filter(func(p *models.Property) bool { return matches(p, filter) })
	field, dir := order[0].Key, order[0].Value.(int)
	sort.SliceStable(found, func(i, j int) bool {
		c := compareBy(&found[i], &found[j], field)
		if c == 0 {
			c = compareStrings(found[i].ID.Hex(), found[j].ID.Hex())
		}
		return c*dir < 0
	})
	if skip >= int64(len(found)) {
		return []models.Property{}, nil
	}
	found = found[skip:]
	if limit > 0 && limit < int64(len(found)) {
		found = found[:limit]
	}
	return found, nil
}

func (r *fakeProperties) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if err := r.hit("find_by_ids"); err != nil {
		return nil, err
	}
	set := idSet(ids)
	return r.filter(func(p *models.Property) bool { return set[p.ID] }), nil
}

func (r *fakeProperties) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error) {
	if err := r.hit("find_by_owner"); err != nil {
		return nil, err
	}
	return r.filter(func(p *models.Property) bool { return p.IdOwner == ownerID }), nil
}

func (r *fakeProperties) ExistsByCodigoInternal(ctx context.Context, code string, excludeID primitive.ObjectID) (bool, error) {
	if err := r.hit("exists_codigo"); err != nil {
		return false, err
	}
	return len(r.filter(func(p *models.Property) bool { return p.CodigoInternal == code && p.ID != excludeID })) > 0, nil
}

func (r *fakeProperties) ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	set := idSet(ids)
	out := map[primitive.ObjectID]bool{}
	for _, p := range r.filter(func(p *models.Property) bool { return set[p.ID] }) {
		out[p.ID] = true
	}
	return out, nil
}

type fakeOwners struct {
	*memRepo[models.Owner, *models.Owner]
}

func newFakeOwners() *fakeOwners {
	return &fakeOwners{newMemRepo[models.Owner, *models.Owner]()}
}

func (r *fakeOwners) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Owner, error) {
	if err := r.hit("find_by_ids"); err != nil {
		return nil, err
	}
	set := idSet(ids)
	return r.filter(func(o *models.Owner) bool { return set[o.ID] }), nil
}

func ownerMatches(o *models.Owner, term string) bool {
	return query.ContainsFold(o.Name, term) || query.ContainsFold(o.LastName, term) || query.ContainsFold(o.FullName(), term)
}

func (r *fakeOwners) MatchIDsByName(ctx context.Context, term string) ([]primitive.ObjectID, error) {
	if err := r.hit("match_name"); err != nil {
		return nil, err
	}
	ids := []primitive.ObjectID{}
	for _, o := range r.filter(func(o *models.Owner) bool { return ownerMatches(o, term) }) {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

func (r *fakeOwners) SearchByName(ctx context.Context, term string) ([]models.Owner, error) {
	return r.filter(func(o *models.Owner) bool { return ownerMatches(o, term) }), nil
}

func (r *fakeOwners) FindByEmail(ctx context.Context, email string) (*models.Owner, error) {
	found := r.filter(func(o *models.Owner) bool { return query.EqualFold(o.Email, email) })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *fakeOwners) ExistsByEmail(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	return len(r.filter(func(o *models.Owner) bool { return query.EqualFold(o.Email, email) && o.ID != excludeID })) > 0, nil
}

type fakeImages struct {
	*memRepo[models.PropertyImage, *models.PropertyImage]
}

func newFakeImages() *fakeImages {
	return &fakeImages{newMemRepo[models.PropertyImage, *models.PropertyImage]()}
}

func (r *fakeImages) FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyImage, error) {
	if err := r.hit("find_by_property_ids"); err != nil {
		return nil, err
	}
	set := idSet(ids)
	return r.filter(func(i *models.PropertyImage) bool { return set[i.IdProperty] }), nil
}

func (r *fakeImages) FindByPropertyID(ctx context.Context, pid primitive.ObjectID, enabledOnly bool) ([]models.PropertyImage, error) {
	return r.filter(func(i *models.PropertyImage) bool { return i.IdProperty == pid && (!enabledOnly || i.Enabled) }), nil
}

func (r *fakeImages) FindMain(ctx context.Context, pid primitive.ObjectID) (*models.PropertyImage, error) {
	found := r.filter(func(i *models.PropertyImage) bool { return i.IdProperty == pid && i.IsMain && i.Enabled })
	if len(found) == 0 {
		return nil, nil
	}
	sort.SliceStable(found, func(a, b int) bool { return found[a].UpdatedAt.After(found[b].UpdatedAt) })
	return &found[0], nil
}

func (r *fakeImages) MarkMain(ctx context.Context, pid, iid primitive.ObjectID) (bool, error) {
	if err := r.hit("mark_main"); err != nil {
		return false, err
	}
	n := r.update(
		func(i *models.PropertyImage) bool { return i.ID == iid && i.IdProperty == pid && i.Enabled },
		func(i *models.PropertyImage) {
			i.IsMain = true
			i.UpdatedAt = time.Now().UTC()
		},
	)
	return n > 0, nil
}

func (r *fakeImages) ClearMainExcept(ctx context.Context, pid, keepID primitive.ObjectID) (int64, error) {
	if err := r.hit("clear_main"); err != nil {
		return 0, err
	}
	return r.update(
		func(i *models.PropertyImage) bool { return i.IdProperty == pid && i.IsMain && i.ID != keepID },
		func(i *models.PropertyImage) { i.IsMain = false },
	), nil
}

func (r *fakeImages) Disable(ctx context.Context, pid, iid primitive.ObjectID) (bool, error) {
	n := r.update(
		func(i *models.PropertyImage) bool { return i.ID == iid && i.IdProperty == pid },
		func(i *models.PropertyImage) {
			i.Enabled = false
			i.IsMain = false
		},
	)
	return n > 0, nil
}

func (r *fakeImages) DeleteByPropertyID(ctx context.Context, pid primitive.ObjectID) (int64, error) {
	return r.deleteWhere(func(i *models.PropertyImage) bool { return i.IdProperty == pid }), nil
}

func (r *fakeImages) DeleteByPublicID(ctx context.Context, publicID string) (int64, error) {
	return r.deleteWhere(func(i *models.PropertyImage) bool { return i.CloudinaryPublicId == publicID }), nil
}

func (r *fakeImages) PropertiesWithMultipleMains(ctx context.Context) ([]primitive.ObjectID, error) {
	counts := map[primitive.ObjectID]int{}
	for _, i := range r.filter(func(i *models.PropertyImage) bool { return i.IsMain && i.Enabled }) {
		counts[i.IdProperty]++
	}
	out := []primitive.ObjectID{}
	for id, n := range counts {
		if n > 1 {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeImages) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinct(r.snapshot(), func(i models.PropertyImage) primitive.ObjectID { return i.IdProperty }), nil
}

func distinct[T any](docs []T, key func(T) primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, d := range docs {
		if id := key(d); !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *fakeImages) mains(pid primitive.ObjectID) []models.PropertyImage {
	return r.filter(func(i *models.PropertyImage) bool { return i.IdProperty == pid && i.IsMain })
}

type fakePlaces struct {
	*memRepo[models.PropertyPlace, *models.PropertyPlace]
	// staleMatches, when set, is returned by MatchPropertyIDs instead of the
	// stored state, as if places changed between the two queries of a search.
	staleMatches []primitive.ObjectID
}

func newFakePlaces() *fakePlaces {
	return &fakePlaces{memRepo: newMemRepo[models.PropertyPlace, *models.PropertyPlace]()}
}

func (r *fakePlaces) FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyPlace, error) {
	if err := r.hit("find_by_property_ids"); err != nil {
		return nil, err
	}
	set := idSet(ids)
	return r.filter(func(p *models.PropertyPlace) bool { return set[p.IdProperty] }), nil
}

func (r *fakePlaces) FindByPropertyID(ctx context.Context, pid primitive.ObjectID) ([]models.PropertyPlace, error) {
	return r.filter(func(p *models.PropertyPlace) bool { return p.IdProperty == pid }), nil
}

func (r *fakePlaces) MatchPropertyIDs(ctx context.Context, tag, term string) ([]primitive.ObjectID, error) {
	if err := r.hit("match"); err != nil {
		return nil, err
	}
	if r.staleMatches != nil {
		return r.staleMatches, nil
	}
	found := r.filter(func(p *models.PropertyPlace) bool {
		return query.EqualFold(p.Name, tag) && query.ContainsFold(p.Value, term)
	})
	return distinct(found, func(p models.PropertyPlace) primitive.ObjectID { return p.IdProperty }), nil
}

func (r *fakePlaces) MatchAnyPropertyIDs(ctx context.Context, terms map[string]string) ([]primitive.ObjectID, error) {
	found := r.filter(func(p *models.PropertyPlace) bool {
		for tag, term := range terms {
			if query.EqualFold(p.Name, tag) && query.ContainsFold(p.Value, term) {
				return true
			}
		}
		return false
	})
	return distinct(found, func(p models.PropertyPlace) primitive.ObjectID { return p.IdProperty }), nil
}

func (r *fakePlaces) Upsert(ctx context.Context, place *models.PropertyPlace) error {
	if err := r.hit("upsert"); err != nil {
		return err
	}
	n := r.update(
		func(p *models.PropertyPlace) bool { return p.IdProperty == place.IdProperty && p.Name == place.Name },
		func(p *models.PropertyPlace) {
			p.Value, p.PlaceType = place.Value, place.PlaceType
			p.Latitude, p.Longitude, p.Geohash = place.Latitude, place.Longitude, place.Geohash
		},
	)
	if n == 0 {
		return r.Create(ctx, place)
	}
	return nil
}

func (r *fakePlaces) DeleteByPropertyID(ctx context.Context, pid primitive.ObjectID) (int64, error) {
	return r.deleteWhere(func(p *models.PropertyPlace) bool { return p.IdProperty == pid }), nil
}

func (r *fakePlaces) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinct(r.snapshot(), func(p models.PropertyPlace) primitive.ObjectID { return p.IdProperty }), nil
}

type fakeTraces struct {
	*memRepo[models.PropertyTrace, *models.PropertyTrace]
}

func newFakeTraces() *fakeTraces {
	return &fakeTraces{newMemRepo[models.PropertyTrace, *models.PropertyTrace]()}
}

func (r *fakeTraces) FindByPropertyID(ctx context.Context, pid primitive.ObjectID) ([]models.PropertyTrace, error) {
	found := r.filter(func(t *models.PropertyTrace) bool { return t.IdProperty == pid })
	sort.SliceStable(found, func(a, b int) bool { return found[a].DateSale.After(found[b].DateSale) })
	return found, nil
}

func (r *fakeTraces) DeleteByPropertyID(ctx context.Context, pid primitive.ObjectID) (int64, error) {
	return r.deleteWhere(func(t *models.PropertyTrace) bool { return t.IdProperty == pid }), nil
}

func (r *fakeTraces) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinct(r.snapshot(), func(t models.PropertyTrace) primitive.ObjectID { return t.IdProperty }), nil
}

// fakeCache is a PropertyCache over plain maps.
type fakeCache struct {
	mu         sync.Mutex
	properties map[string]models.Property
	searches   map[string]models.PagedResult[models.Property]
	generation int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{properties: map[string]models.Property{}, searches: map[string]models.PagedResult[models.Property]{}}
}

func propertyCacheKey(generation int64, id string) string {
	return fmt.Sprintf("%d:%s", generation, id)
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *fakeCache) GetProperty(ctx context.Context, generation int64, id string) (*models.Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.properties[propertyCacheKey(generation, id)]; ok {
		return &p, nil
	}
	return nil, nil
}

func (c *fakeCache) SetProperty(ctx context.Context, generation int64, p *models.Property, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[propertyCacheKey(generation, p.ID.Hex())] = *p
	return nil
}

func (c *fakeCache) InvalidateProperty(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.properties {
		if strings.HasSuffix(key, ":"+id) {
			delete(c.properties, key)
		}
	}
	return nil
}

func (c *fakeCache) SearchKey(ctx context.Context, input interface{}) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%d:%s", c.generation, raw), nil
}

func (c *fakeCache) GetSearch(ctx context.Context, key string) (*models.PagedResult[models.Property], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.searches[key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (c *fakeCache) SetSearch(ctx context.Context, key string, r *models.PagedResult[models.Property], _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches[key] = *r
	return nil
}

func (c *fakeCache) InvalidateSearches(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return nil
}

type fakeHost struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
	uploadErr error
}

func (h *fakeHost) Upload(ctx context.Context, file io.Reader, filename string) (*imagehost.Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.uploadErr != nil {
		return nil, h.uploadErr
	}
	h.uploads++
	id := fmt.Sprintf("real-estate/properties/%d", h.uploads)
	return &imagehost.Asset{PublicID: id, SecureURL: "https://img.test/" + id, Width: 800, Height: 600, Format: "jpg", Bytes: 1024}, nil
}

func (h *fakeHost) Destroy(ctx context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, publicID)
	return nil
}

func (h *fakeHost) URL(publicID string, width, height int) (string, error) {
	return fmt.Sprintf("https://img.test/w_%d,h_%d/%s", width, height, publicID), nil
}
