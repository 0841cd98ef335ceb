package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceExists   = errors.New("service with this id already exists")
	ErrServiceInUse    = errors.New("service is referenced by user subscriptions")
	ErrInvalidService  = errors.New("invalid service definition")
	ErrEmptyPatch      = errors.New("service patch has no fields to update")

	// Data integrity violations reached at runtime
	ErrUnsupportedServiceType = errors.New("unsupported service type")
	ErrInvalidBillingCycle    = errors.New("invalid billing cycle")

	ErrStorage          = errors.New("catalog storage failure")
	ErrFailedToLoadSeed = errors.New("failed to load catalog seed file")
)
