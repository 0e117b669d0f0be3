package storex

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TypedMongo provides MongoDB operations for a specific type. Documents
// are keyed by application-generated string ids (stored in IDField), not
// by ObjectIDs.
type TypedMongo[T any] struct {
	Collection *mongo.Collection
	IDField    string
}

// NewTypedMongo creates a new TypedMongo helper for a specific type
func NewTypedMongo[T any](collection *mongo.Collection) *TypedMongo[T] {
	return &TypedMongo[T]{
		Collection: collection,
		IDField:    "_id",
	}
}

// Create adds a new document to the collection
func (m *TypedMongo[T]) Create(ctx context.Context, item T) (T, error) {
	if _, err := m.Collection.InsertOne(ctx, item); err != nil {
		return item, storeErrors.New(ErrMongoInsertFailed).
			WithDetail("collection", m.Collection.Name()).
			WithCause(err)
	}
	return item, nil
}

// FindByID retrieves a document by its string id
func (m *TypedMongo[T]) FindByID(ctx context.Context, id string) (T, error) {
	var result T

	err := m.Collection.FindOne(ctx, bson.M{m.IDField: id}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return result, storeErrors.New(ErrRecordNotFound).
				WithDetail("id", id).
				WithDetail("collection", m.Collection.Name())
		}
		return result, storeErrors.New(ErrMongoFindFailed).
			WithDetail("id", id).
			WithDetail("collection", m.Collection.Name()).
			WithCause(err)
	}

	return result, nil
}

// UpdateFields sets the given fields on the document with the given id
func (m *TypedMongo[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	update := bson.M{"$set": convertMapToBson(fields)}

	result, err := m.Collection.UpdateOne(ctx, bson.M{m.IDField: id}, update)
	if err != nil {
		return storeErrors.New(ErrMongoUpdateFailed).
			WithDetail("id", id).
			WithDetail("collection", m.Collection.Name()).
			WithCause(err)
	}
	if result.MatchedCount == 0 {
		return storeErrors.New(ErrRecordNotFound).
			WithDetail("id", id).
			WithDetail("collection", m.Collection.Name())
	}

	return nil
}

// Paginate retrieves documents with pagination
func (m *TypedMongo[T]) Paginate(ctx context.Context, opts PaginationOptions) (Paginated[T], error) {
	return PaginateMongo[T](ctx, m.Collection, opts)
}

// PaginateMongo runs a filtered, sorted, paginated find on a collection
func PaginateMongo[T any](ctx context.Context, collection *mongo.Collection, opts PaginationOptions) (Paginated[T], error) {
	filter := bson.M{}
	for k, v := range opts.Filters {
		filter[k] = v
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return Paginated[T]{}, storeErrors.New(ErrMongoCountFailed).
			WithDetail("collection", collection.Name()).
			WithCause(err)
	}

	findOptions := options.Find().
		SetSkip(int64((opts.Page - 1) * opts.PageSize)).
		SetLimit(int64(opts.PageSize))

	if opts.OrderBy != "" {
		sortValue := 1
		if opts.Desc {
			sortValue = -1
		}
		findOptions.SetSort(bson.D{{Key: opts.OrderBy, Value: sortValue}})
	}

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return Paginated[T]{}, storeErrors.New(ErrMongoFindFailed).
			WithDetail("collection", collection.Name()).
			WithDetail("filter", fmt.Sprintf("%v", filter)).
			WithCause(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return Paginated[T]{}, storeErrors.New(ErrMongoDecodeFailed).
			WithDetail("collection", collection.Name()).
			WithCause(err)
	}

	return NewPaginated(results, opts.Page, opts.PageSize, int(total)), nil
}

func convertMapToBson(m map[string]any) bson.M {
	bsonDoc := bson.M{}
	for k, v := range m {
		bsonDoc[k] = v
	}
	return bsonDoc
}
