package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/subhub/pkg/logger"
)

// Catalog wraps a Store with input validation and the deletion guard.
// It is itself a Store, so it can be handed to anything that reads services.
type Catalog struct {
	Store
	refs ReferenceChecker
	log  *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger for catalog mutations.
func WithLogger(log *slog.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Catalog. Both dependencies are required.
func New(store Store, refs ReferenceChecker, opts ...Option) *Catalog {
	if store == nil {
		panic("catalog: Store is required")
	}
	if refs == nil {
		panic("catalog: ReferenceChecker is required")
	}

	c := &Catalog{
		Store: store,
		refs:  refs,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates the definition before handing it to the store.
func (c *Catalog) Create(ctx context.Context, svc Service) (*Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	created, err := c.Store.Create(ctx, svc)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrServiceExists) {
			level = slog.LevelWarn
		}
		c.log.Log(ctx, level, "failed to create service", logger.ServiceID(svc.ID), logger.Error(err))
		return nil, err
	}

	c.log.InfoContext(ctx, "service created", logger.ServiceID(created.ID))
	return created, nil
}

// Update validates the merged result so a patch cannot leave a service in an invalid state.
func (c *Catalog) Update(ctx context.Context, id string, patch Patch) (*Service, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	current, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(*current).Validate(); err != nil {
		return nil, err
	}

	updated, err := c.Store.Update(ctx, id, patch)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to update service", logger.ServiceID(id), logger.Error(err))
		return nil, err
	}

	c.log.InfoContext(ctx, "service updated", logger.ServiceID(id))
	return updated, nil
}

// Delete refuses with ErrServiceInUse while any user holds a subscription, in any status, for the service.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if _, err := c.Store.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := c.refs.HasServiceReference(ctx, id)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to check service references", logger.ServiceID(id), logger.Error(err))
		return errors.Join(ErrStorage, err)
	}
	if inUse {
		return ErrServiceInUse
	}

	if err := c.Store.Delete(ctx, id); err != nil {
		c.log.ErrorContext(ctx, "failed to delete service", logger.ServiceID(id), logger.Error(err))
		return err
	}

	c.log.InfoContext(ctx, "service deleted", logger.ServiceID(id))
	return nil
}
