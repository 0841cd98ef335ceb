// Package subscription implements the subscription lifecycle engine.
//
// A User owns an ordered history of Subscription records. The engine exposes three
// operations through the Service interface:
//
//   - Subscribe resolves the service, provisions unknown users, rejects a second active
//     subscription to the same service, charges once through PaymentGateway, activates
//     the service through Fulfiller, computes the billing dates and appends an active record.
//   - Cancel deactivates the service and moves the matching active record to cancelled.
//   - Status projects the catalog onto the user's active records.
//
// Every port is injected:
//
//	svc := subscription.NewService(
//		catalogStore,
//		subscription.NewMemoryUserStore(),
//		subscription.InstantApproval{},
//		subscription.NewLocalFulfiller(log),
//		subscription.WithLogger(log),
//	)
//	res, err := svc.Subscribe(ctx, "+15550001", "svc-music")
//
// # Errors
//
// Failures are returned as *OpError carrying the operation, the ids and an Outcome.
// KindOf maps any error to a Kind (not found, conflict, payment failed, ...) and
// errors.Is reaches the package sentinels through it. OutcomeChargedButNotFulfilled
// marks a failure after a successful charge: the money moved, no subscription was
// stored and no refund is attempted.
//
// # Concurrency
//
// Operations read the user, call out to payment and fulfillment, then write the whole
// user back. Without locking, two concurrent subscribes for the same user and service
// can both pass the duplicate check. WithOptimisticLocking turns the final write into a
// compare-and-set on User.Version so the loser fails with ErrVersionConflict.
//
// # Expiry
//
// Nothing moves a record to expired. Subscription.EffectiveStatusAt derives it on read
// from EndDate; the stored status stays active and Status keeps reporting it.
//
// # Stores
//
// MemoryUserStore, MongoUserStore and PostgresUserStore implement VersionedUserStore
// and catalog.ReferenceChecker, so any of them can guard catalog deletions.
package subscription
