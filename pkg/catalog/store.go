package catalog

import "context"

// Store is the persistence port for service definitions.
// List returns services in the catalog's natural order, which is insertion order for every backend.
type Store interface {
	List(ctx context.Context) ([]Service, error)

	// Get returns ErrServiceNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*Service, error)

	// Create assigns an id when svc.ID is empty. A caller-provided id must be unique (ErrServiceExists).
	Create(ctx context.Context, svc Service) (*Service, error)

	// Update merges the non-nil patch fields. Returns ErrServiceNotFound if the id is unknown.
	Update(ctx context.Context, id string, patch Patch) (*Service, error)

	// Delete removes the service. Returns ErrServiceNotFound if the id is unknown.
	// Referential integrity is enforced by Catalog, not by stores.
	Delete(ctx context.Context, id string) error
}

// ReferenceChecker reports whether any user holds a subscription, in any status, for a service.
// Implemented by the user stores.
type ReferenceChecker interface {
	HasServiceReference(ctx context.Context, serviceID string) (bool, error)
}

// ReferenceCheckerFunc adapts a plain function to ReferenceChecker.
type ReferenceCheckerFunc func(ctx context.Context, serviceID string) (bool, error)

func (f ReferenceCheckerFunc) HasServiceReference(ctx context.Context, serviceID string) (bool, error) {
	return f(ctx, serviceID)
}
