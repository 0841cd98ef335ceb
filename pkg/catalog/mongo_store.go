package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection is the collection name used by NewMongoStore when none is given.
const DefaultMongoCollection = "services"

// serviceDocument adds the ordering key that keeps List in insertion order.
type serviceDocument struct {
	Service   `bson:",inline"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore persists services as documents keyed by service id.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore creates a catalog store backed by the given collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoStore{
		coll: db.Collection(collection),
		now:  time.Now,
	}
}

// EnsureIndexes creates the index List sorts on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	var docs []serviceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	out := make([]Service, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Service)
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Service, error) {
	var doc serviceDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrServiceNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return &doc.Service, nil
}

func (s *MongoStore) Create(ctx context.Context, svc Service) (*Service, error) {
	if svc.ID == "" {
		svc.ID = bson.NewObjectID().Hex()
	}

	doc := serviceDocument{Service: svc, CreatedAt: s.now().UTC()}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrServiceExists, svc.ID)
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return &svc, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch Patch) (*Service, error) {
	set := patchToBSON(patch)
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	var doc serviceDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrServiceNotFound
		}
		return nil, errors.Join(ErrStorage, err)
	}
	return &doc.Service, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if res.DeletedCount == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func patchToBSON(p Patch) bson.D {
	var set bson.D
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *p.Price})
	}
	if p.Currency != nil {
		set = append(set, bson.E{Key: "currency", Value: *p.Currency})
	}
	if p.BillingCycle != nil {
		set = append(set, bson.E{Key: "billing_cycle", Value: *p.BillingCycle})
	}
	if p.Type != nil {
		set = append(set, bson.E{Key: "type", Value: *p.Type})
	}
	if p.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *p.Description})
	}
	if p.Active != nil {
		set = append(set, bson.E{Key: "active", Value: *p.Active})
	}
	if p.Metadata != nil {
		set = append(set, bson.E{Key: "metadata", Value: p.Metadata})
	}
	return set
}
