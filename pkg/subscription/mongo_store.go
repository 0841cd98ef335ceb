package subscription

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection is the collection name used by NewMongoUserStore when none is given.
const DefaultMongoCollection = "users"

// MongoUserStore keeps one document per user with the subscription history embedded.
// The client should decode embedded documents as bson.M (see pkg/mongo) so metadata round-trips as maps.
type MongoUserStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoUserStore creates a user store backed by the given collection.
func NewMongoUserStore(db *mongo.Database, collection string) *MongoUserStore {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoUserStore{
		coll: db.Collection(collection),
		now:  time.Now,
	}
}

// EnsureIndexes creates the indexes used for listing and the catalog reference check.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subscriptions.service_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return errors.Join(ErrDependencyFailure, err)
	}
	return nil
}

func (s *MongoUserStore) Get(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrDependencyFailure, err)
	}
	return &u, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Join(ErrDependencyFailure, err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Join(ErrDependencyFailure, err)
	}
	return users, nil
}

func (s *MongoUserStore) Upsert(ctx context.Context, u *User) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	var stored struct {
		Version int64 `bson:"version"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "version", Value: 1}})

	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: u.ID}}, s.mergeUpdate(u), opts).Decode(&stored)
	if err != nil {
		return errors.Join(ErrDependencyFailure, err)
	}

	u.Version = stored.Version
	return nil
}

func (s *MongoUserStore) UpsertVersioned(ctx context.Context, u *User, expected int64) error {
	if u == nil || u.ID == "" {
		return ErrInvalidArgument
	}

	if expected == 0 {
		doc := bson.D{
			{Key: "_id", Value: u.ID},
			{Key: "phone", Value: u.Phone},
			{Key: "subscriptions", Value: nonNil(u.Subscriptions)},
			{Key: "version", Value: int64(1)},
			{Key: "created_at", Value: s.now().UTC()},
		}
		if _, err := s.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrVersionConflict
			}
			return errors.Join(ErrDependencyFailure, err)
		}
		u.Version = 1
		return nil
	}

	filter := bson.D{{Key: "_id", Value: u.ID}, {Key: "version", Value: expected}}
	res, err := s.coll.UpdateOne(ctx, filter, s.mergeUpdate(u))
	if err != nil {
		return errors.Join(ErrDependencyFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}

	u.Version = expected + 1
	return nil
}

func (s *MongoUserStore) HasServiceReference(ctx context.Context, serviceID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx,
		bson.D{{Key: "subscriptions.service_id", Value: serviceID}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, errors.Join(ErrDependencyFailure, err)
	}
	return n > 0, nil
}

// mergeUpdate sets only the non-zero fields and bumps the version.
func (s *MongoUserStore) mergeUpdate(u *User) bson.D {
	set := bson.D{}
	if u.Phone != "" {
		set = append(set, bson.E{Key: "phone", Value: u.Phone})
	}
	if u.Subscriptions != nil {
		set = append(set, bson.E{Key: "subscriptions", Value: u.Subscriptions})
	}

	setOnInsert := bson.D{{Key: "created_at", Value: s.now().UTC()}}
	if u.Subscriptions == nil {
		setOnInsert = append(setOnInsert, bson.E{Key: "subscriptions", Value: []Subscription{}})
	}

	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
		{Key: "$setOnInsert", Value: setOnInsert},
	}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	return update
}

func nonNil(subs []Subscription) []Subscription {
	if subs == nil {
		return []Subscription{}
	}
	return subs
}
