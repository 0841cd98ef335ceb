// Package catalog manages the set of purchasable services.
//
// A Service carries a price, an ISO 4217 currency, a BillingCycle and a ServiceType.
// BillingCycle and ServiceType are closed enumerations: Validate rejects anything
// else at the catalog boundary and the dispatch points fail with
// ErrInvalidBillingCycle or ErrUnsupportedServiceType if bad data reaches them anyway.
//
// Storage goes through the Store port. Available backends:
//
//   - MemoryStore: in-process, insertion ordered
//   - MongoStore: one document per service
//   - PostgresStore: the services table from internal/db/migrations
//   - CachedStore: read-through cache in front of any of the above
//
// Catalog wraps a Store with validation and refuses to delete a service that any
// user subscription references:
//
//	cat := catalog.New(store, userStore, catalog.WithLogger(log))
//	if err := cat.Delete(ctx, "svc-music"); errors.Is(err, catalog.ErrServiceInUse) {
//		// still referenced
//	}
//
// BillingCycle.EndDate uses time.AddDate, so month overflow normalizes forward:
// 2024-01-31 plus one month is 2024-03-02.
package catalog
