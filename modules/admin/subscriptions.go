package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/binder"
	"github.com/dmitrymomot/subhub/pkg/subscription"
	"github.com/dmitrymomot/subhub/pkg/validator"
)

// SubscriptionsHandler exposes the lifecycle engine for one user.
// It expects a {userID} parameter in the mount pattern.
type SubscriptionsHandler struct {
	engine subscription.Service
	opts   *options
}

// NewSubscriptionsHandler panics on a nil engine.
func NewSubscriptionsHandler(engine subscription.Service, opts ...Option) *SubscriptionsHandler {
	if engine == nil {
		panic("admin: subscription service is required")
	}
	return &SubscriptionsHandler{engine: engine, opts: newOptions(opts)}
}

type statusRequest struct {
	UserID string `path:"userID"`
}

type subscribeRequest struct {
	UserID    string `path:"userID" json:"-"`
	ServiceID string `json:"service_id"`
}

type cancelRequest struct {
	UserID    string `path:"userID"`
	ServiceID string `path:"serviceID"`
}

// Handle mounts GET|POST / and DELETE /{serviceID}.
func (h *SubscriptionsHandler) Handle() http.Handler {
	r := chi.NewRouter()
	onError := handler.WithErrorHandler(h.opts.errorHandler())
	path := binder.Path(chi.URLParam)

	r.Get("/", handler.Wrap(h.status, handler.WithBinders(path), onError))
	r.Post("/", handler.Wrap(h.subscribe, handler.WithBinders(path, binder.JSON()), onError))
	r.Delete("/{serviceID}", handler.Wrap(h.cancel, handler.WithBinders(path), onError))

	return r
}

// status renders serviceID -> active subscription (or null) for every catalog service.
// meta.order lists the service ids in catalog order.
func (h *SubscriptionsHandler) status(ctx handler.Context, req statusRequest) handler.Response {
	report, err := h.engine.Status(ctx, req.UserID)
	if err != nil {
		return h.opts.fail(ctx, err)
	}

	now := h.opts.now()
	data := make(map[string]*subscriptionView, len(report))
	order := make([]string, 0, len(report))
	for _, entry := range report {
		data[entry.Service.ID] = newSubscriptionView(entry.Subscription, now)
		order = append(order, entry.Service.ID)
	}
	return handler.JSON(data, handler.WithJSONMeta(map[string]any{"order": order}))
}

func (h *SubscriptionsHandler) subscribe(ctx handler.Context, req subscribeRequest) handler.Response {
	if err := validator.Apply(validator.RequiredString("service_id", req.ServiceID)); err != nil {
		return h.opts.fail(ctx, err)
	}

	res, err := h.engine.Subscribe(ctx, req.UserID, req.ServiceID)
	if err != nil {
		// Flag failures that happened after the charge so the client can reconcile them.
		if outcome := subscription.OutcomeOf(err); outcome == subscription.OutcomeChargedButNotFulfilled {
			return h.opts.fail(ctx, err, handler.WithJSONMeta(map[string]any{"outcome": outcome}))
		}
		return h.opts.fail(ctx, err)
	}

	now := h.opts.now()
	return handler.JSON(subscribeView{
		User:         newUserView(res.User, now),
		Subscription: newSubscriptionView(res.Subscription, now),
		Charge:       res.Charge,
	},
		handler.WithJSONStatus(http.StatusCreated),
		handler.WithJSONMeta(map[string]any{"outcome": res.Outcome}),
	)
}

func (h *SubscriptionsHandler) cancel(ctx handler.Context, req cancelRequest) handler.Response {
	user, err := h.engine.Cancel(ctx, req.UserID, req.ServiceID)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.JSON(newUserView(user, h.opts.now()))
}
