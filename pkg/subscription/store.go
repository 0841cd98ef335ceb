package subscription

import "context"

// UserStore is the persistence port for users and their embedded subscription history.
type UserStore interface {
	// Get returns ErrUserNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*User, error)

	List(ctx context.Context) ([]User, error)

	// Upsert is a merge write: it creates the user if absent, otherwise overwrites
	// the non-zero fields of u (Phone, Subscriptions) and preserves the rest.
	// It is not a transaction; callers own read-before-write consistency.
	// On success u.Version holds the stored version.
	Upsert(ctx context.Context, u *User) error
}

// VersionedUserStore adds a compare-and-set write keyed on User.Version.
type VersionedUserStore interface {
	UserStore

	// UpsertVersioned writes u only if the stored version equals expected (0 for a user that does
	// not exist yet) and fails with ErrVersionConflict otherwise.
	// On success u.Version is expected+1.
	UpsertVersioned(ctx context.Context, u *User, expected int64) error
}
