package requests

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/errx"
	"github.com/ridermall/riderbot/storex"
)

// MongoStore is the default Store implementation
type MongoStore struct {
	collection *storex.TypedMongo[dialogx.ServiceRequest]
}

// NewMongoStore creates a store over the given collection
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{
		collection: storex.NewTypedMongo[dialogx.ServiceRequest](collection),
	}
}

func (s *MongoStore) Save(ctx context.Context, req dialogx.ServiceRequest) error {
	_, err := s.collection.Create(ctx, req)
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (dialogx.ServiceRequest, error) {
	return s.collection.FindByID(ctx, id)
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) (storex.Paginated[dialogx.ServiceRequest], error) {
	return s.collection.Paginate(ctx, opts.pagination())
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status dialogx.RequestStatus) error {
	if !dialogx.ValidStatus(status) {
		return errx.New("unknown request status "+string(status), errx.TypeValidation)
	}
	return s.collection.UpdateFields(ctx, id, map[string]any{"status": string(status)})
}
