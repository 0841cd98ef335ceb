package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/binder"
	"github.com/dmitrymomot/subhub/pkg/catalog"
)

// ServicesHandler serves catalog administration.
type ServicesHandler struct {
	catalog *catalog.Catalog
	opts    *options
}

// NewServicesHandler panics on a nil catalog.
func NewServicesHandler(c *catalog.Catalog, opts ...Option) *ServicesHandler {
	if c == nil {
		panic("admin: catalog is required")
	}
	return &ServicesHandler{catalog: c, opts: newOptions(opts)}
}

type serviceRequest struct {
	ServiceID string `path:"serviceID"`
}

type updateServiceRequest struct {
	ServiceID string `path:"serviceID" json:"-"`
	catalog.Patch
}

// Handle mounts GET|POST / and GET|PATCH|DELETE /{serviceID}.
func (h *ServicesHandler) Handle() http.Handler {
	r := chi.NewRouter()
	onError := handler.WithErrorHandler(h.opts.errorHandler())
	path := binder.Path(chi.URLParam)

	r.Get("/", handler.Wrap(h.list, onError))
	r.Post("/", handler.Wrap(h.create, handler.WithBinders(binder.JSON()), onError))
	r.Get("/{serviceID}", handler.Wrap(h.get, handler.WithBinders(path), onError))
	r.Patch("/{serviceID}", handler.Wrap(h.update, handler.WithBinders(path, binder.JSON()), onError))
	r.Delete("/{serviceID}", handler.Wrap(h.delete, handler.WithBinders(path), onError))

	return r
}

func (h *ServicesHandler) list(ctx handler.Context, _ struct{}) handler.Response {
	services, err := h.catalog.List(ctx)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	if services == nil {
		services = []catalog.Service{}
	}
	return handler.JSON(services, handler.WithJSONMeta(map[string]any{"total": len(services)}))
}

func (h *ServicesHandler) get(ctx handler.Context, req serviceRequest) handler.Response {
	svc, err := h.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.JSON(svc)
}

func (h *ServicesHandler) create(ctx handler.Context, req catalog.Service) handler.Response {
	svc, err := h.catalog.Create(ctx, req)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.JSON(svc, handler.WithJSONStatus(http.StatusCreated))
}

func (h *ServicesHandler) update(ctx handler.Context, req updateServiceRequest) handler.Response {
	svc, err := h.catalog.Update(ctx, req.ServiceID, req.Patch)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.JSON(svc)
}

func (h *ServicesHandler) delete(ctx handler.Context, req serviceRequest) handler.Response {
	if err := h.catalog.Delete(ctx, req.ServiceID); err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.Empty()
}
