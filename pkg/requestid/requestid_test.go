package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subhub/pkg/requestid"
)

// serve runs one request through the middleware and returns the id seen by the handler
// together with the response header value.
func serve(t *testing.T, incoming string, opts ...requestid.Option) (seen, echoed string) {
	t.Helper()

	h := requestid.New(opts...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/u1/subscriptions", nil)
	if incoming != "" {
		req.Header.Set(requestid.Header, incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func fixed(id string) requestid.Option {
	return requestid.WithGenerator(func() string { return id })
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates an id when none is sent", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "")
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, echoed)
	})

	t.Run("reuses safe client ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"abc123",
			"checkout_retry-2",
			"550e8400-e29b-41d4-a716-446655440000",
			strings.Repeat("a", 128),
		} {
			seen, echoed := serve(t, id, fixed("generated"))
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		}
	})

	t.Run("replaces unsafe client ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"user@example.com",
			"two words",
			"svc/A",
			"<script>alert(1)</script>",
			"line\nbreak",
			strings.Repeat("a", 129),
		} {
			seen, echoed := serve(t, id, fixed("generated"))
			assert.Equal(t, "generated", seen, "id %q", id)
			assert.Equal(t, "generated", echoed, "id %q", id)
		}
	})

	t.Run("ignores the header when not trusted", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "client-id", fixed("generated"), requestid.WithTrustHeader(false))
		assert.Equal(t, "generated", seen)
		assert.Equal(t, "generated", echoed)
	})

	t.Run("nil generator keeps the default", func(t *testing.T) {
		t.Parallel()
		seen, _ := serve(t, "", requestid.WithGenerator(nil))
		assert.Len(t, seen, 36)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "req-1")
	assert.Equal(t, "req-1", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LogExtractor()

	attr, ok := extract(requestid.WithContext(context.Background(), "req-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
