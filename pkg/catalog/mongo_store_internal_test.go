package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPatchToBSON(t *testing.T) {
	t.Parallel()

	assert.Empty(t, patchToBSON(Patch{}))

	name := "Music Pro"
	price := 0.0
	cycle := CycleYearly
	active := false
	set := patchToBSON(Patch{
		Name:         &name,
		Price:        &price,
		BillingCycle: &cycle,
		Active:       &active,
		Metadata:     map[string]any{"tier": "pro"},
	})

	assert.Equal(t, bson.D{
		{Key: "name", Value: "Music Pro"},
		{Key: "price", Value: 0.0},
		{Key: "billing_cycle", Value: CycleYearly},
		{Key: "active", Value: false},
		{Key: "metadata", Value: map[string]any{"tier": "pro"}},
	}, set)
}

func TestServiceDocument_BSON(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	doc := serviceDocument{
		Service: Service{
			ID:           "svc-A",
			Name:         "Music",
			Price:        9.99,
			Currency:     "USD",
			BillingCycle: CycleMonthly,
			Type:         TypeSubscription,
		},
		CreatedAt: created,
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var flat bson.M
	require.NoError(t, bson.Unmarshal(raw, &flat))
	assert.Equal(t, "svc-A", flat["_id"])
	assert.Equal(t, "monthly", flat["billing_cycle"])
	assert.Contains(t, flat, "created_at")
	assert.NotContains(t, flat, "description")
	assert.NotContains(t, flat, "active")

	var decoded serviceDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, doc.Service, decoded.Service)
	assert.True(t, created.Equal(decoded.CreatedAt))
}
