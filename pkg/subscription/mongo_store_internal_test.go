package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func operator(t *testing.T, update bson.D, name string) (bson.D, bool) {
	t.Helper()
	for _, e := range update {
		if e.Key == name {
			doc, ok := e.Value.(bson.D)
			require.True(t, ok, "%s is not a document", name)
			return doc, true
		}
	}
	return nil, false
}

func TestMongoUserStore_mergeUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.FixedZone("EET", 2*3600))
	store := &MongoUserStore{now: func() time.Time { return now }}

	t.Run("full record", func(t *testing.T) {
		t.Parallel()
		subs := []Subscription{{ID: "sub-1", ServiceID: "svc-A", Status: StatusActive}}
		update := store.mergeUpdate(&User{ID: "u1", Phone: "+15550001", Subscriptions: subs})

		inc, ok := operator(t, update, "$inc")
		require.True(t, ok)
		assert.Equal(t, bson.D{{Key: "version", Value: int64(1)}}, inc)

		set, ok := operator(t, update, "$set")
		require.True(t, ok)
		assert.Equal(t, bson.D{
			{Key: "phone", Value: "+15550001"},
			{Key: "subscriptions", Value: subs},
		}, set)

		onInsert, ok := operator(t, update, "$setOnInsert")
		require.True(t, ok)
		assert.Equal(t, bson.D{{Key: "created_at", Value: now.UTC()}}, onInsert)
	})

	t.Run("zero fields keep stored values", func(t *testing.T) {
		t.Parallel()
		update := store.mergeUpdate(&User{ID: "u1"})

		_, ok := operator(t, update, "$set")
		assert.False(t, ok, "an empty $set is rejected by mongo")

		onInsert, ok := operator(t, update, "$setOnInsert")
		require.True(t, ok)
		assert.Equal(t, bson.D{
			{Key: "created_at", Value: now.UTC()},
			{Key: "subscriptions", Value: []Subscription{}},
		}, onInsert)
	})

	t.Run("empty history replaces stored history", func(t *testing.T) {
		t.Parallel()
		update := store.mergeUpdate(&User{ID: "u1", Subscriptions: []Subscription{}})

		set, ok := operator(t, update, "$set")
		require.True(t, ok)
		assert.Equal(t, bson.D{{Key: "subscriptions", Value: []Subscription{}}}, set)

		onInsert, _ := operator(t, update, "$setOnInsert")
		assert.Len(t, onInsert, 1, "subscriptions must not be in both $set and $setOnInsert")
	})

	t.Run("encodes", func(t *testing.T) {
		t.Parallel()
		end := now.AddDate(0, 1, 0)
		update := store.mergeUpdate(&User{ID: "u1", Subscriptions: []Subscription{{
			ID: "sub-1", ServiceID: "svc-A", StartDate: now, EndDate: &end, Status: StatusActive,
		}}})
		_, err := bson.Marshal(update)
		assert.NoError(t, err)
	})
}
