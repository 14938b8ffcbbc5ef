package repositories

import (
	"context"
	"time"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParseID converts a hex identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidIdentifier(id)
	}
	return oid, nil
}

// mongoRepository implements single-entity CRUD for one collection. PT is the
// pointer type of T, which carries the Document methods through the embedded Base.
type mongoRepository[T any, PT interface {
	*T
	models.Document
}] struct {
	collection *mongo.Collection
	name       string
	now        func() time.Time
}

func newMongoRepository[T any, PT interface {
	*T
	models.Document
}](db *mongo.Database, name string) *mongoRepository[T, PT] {
	r := &mongoRepository[T, PT]{name: name, now: func() time.Time { return time.Now().UTC() }}
	if db != nil {
		r.collection = db.Collection(name)
	}
	return r
}

// observe records duration and, for real failures, the error counter.
func (r *mongoRepository[T, PT]) observe(op string, start time.Time, err error) {
	metrics.MongoOperationDuration.WithLabelValues(op, r.name).Observe(time.Since(start).Seconds())
	if err != nil && err != mongo.ErrNoDocuments {
		metrics.MongoErrorsTotal.WithLabelValues(op, r.name).Inc()
	}
}

func (r *mongoRepository[T, PT]) fail(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict(r.name, "unique key", err.Error())
	}
	return apperrors.Dependency(op+" "+r.name, err)
}

// GetByID returns nil, nil when no document has the id.
func (r *mongoRepository[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoRepository[T, PT]) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	start := time.Now()
	var doc T
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	r.observe("find_one", start, err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, r.fail("find_one", err)
	}
	return &doc, nil
}

func (r *mongoRepository[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoRepository[T, PT]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, filter, opts...)
	r.observe("find", start, err)
	if err != nil {
		return nil, r.fail("find", err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	start = time.Now()
	err = cursor.All(ctx, &docs)
	r.observe("cursor_all", start, err)
	if err != nil {
		return nil, r.fail("cursor_all", err)
	}
	return docs, nil
}

func (r *mongoRepository[T, PT]) count(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	start := time.Now()
	n, err := r.collection.CountDocuments(ctx, filter, opts...)
	r.observe("count_documents", start, err)
	if err != nil {
		return 0, r.fail("count_documents", err)
	}
	return n, nil
}

func (r *mongoRepository[T, PT]) exists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := r.count(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// distinctIDs returns the ObjectID values of field across documents matching filter.
func (r *mongoRepository[T, PT]) distinctIDs(ctx context.Context, field string, filter interface{}) ([]primitive.ObjectID, error) {
	start := time.Now()
	values, err := r.collection.Distinct(ctx, field, filter)
	r.observe("distinct", start, err)
	if err != nil {
		return nil, r.fail("distinct", err)
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

// Create assigns id and timestamps and inserts doc.
func (r *mongoRepository[T, PT]) Create(ctx context.Context, doc *T) error {
	PT(doc).PrepareInsert(r.now())
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, doc)
	r.observe("insert", start, err)
	if err != nil {
		return r.fail("insert", err)
	}
	return nil
}

// Update replaces the stored document and reports how many matched.
func (r *mongoRepository[T, PT]) Update(ctx context.Context, doc *T) (int64, error) {
	p := PT(doc)
	p.PrepareUpdate(r.now())
	start := time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.GetID()}, doc)
	r.observe("replace_one", start, err)
	if err != nil {
		return 0, r.fail("replace_one", err)
	}
	return result.MatchedCount, nil
}

// Delete removes the document with id and reports how many were deleted.
func (r *mongoRepository[T, PT]) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}
	return r.deleteMany(ctx, bson.M{"_id": oid})
}

func (r *mongoRepository[T, PT]) deleteMany(ctx context.Context, filter interface{}) (int64, error) {
	start := time.Now()
	result, err := r.collection.DeleteMany(ctx, filter)
	r.observe("delete", start, err)
	if err != nil {
		return 0, r.fail("delete", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoRepository[T, PT]) updateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	start := time.Now()
	result, err := r.collection.UpdateMany(ctx, filter, update)
	r.observe("update_many", start, err)
	if err != nil {
		return nil, r.fail("update_many", err)
	}
	return result, nil
}

func (r *mongoRepository[T, PT]) updateOne(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	start := time.Now()
	result, err := r.collection.UpdateOne(ctx, filter, update)
	r.observe("update_one", start, err)
	if err != nil {
		return nil, r.fail("update_one", err)
	}
	return result, nil
}

func byPropertyIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"IdProperty": bson.M{"$in": ids}}
}
