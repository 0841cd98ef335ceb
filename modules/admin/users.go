package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/binder"
	"github.com/dmitrymomot/subhub/pkg/subscription"
)

// UsersHandler serves read-only user administration.
type UsersHandler struct {
	users subscription.UserStore
	opts  *options
}

// NewUsersHandler panics on a nil store.
func NewUsersHandler(users subscription.UserStore, opts ...Option) *UsersHandler {
	if users == nil {
		panic("admin: user store is required")
	}
	return &UsersHandler{users: users, opts: newOptions(opts)}
}

type userRequest struct {
	UserID string `path:"userID"`
}

// Handle mounts GET / and GET /{userID}.
func (h *UsersHandler) Handle() http.Handler {
	r := chi.NewRouter()
	onError := handler.WithErrorHandler(h.opts.errorHandler())

	r.Get("/", handler.Wrap(h.list, onError))
	r.Get("/{userID}", handler.Wrap(h.get, handler.WithBinders(binder.Path(chi.URLParam)), onError))

	return r
}

func (h *UsersHandler) list(ctx handler.Context, _ struct{}) handler.Response {
	users, err := h.users.List(ctx)
	if err != nil {
		return h.opts.fail(ctx, err)
	}

	now := h.opts.now()
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i], now))
	}
	return handler.JSON(views, handler.WithJSONMeta(map[string]any{"total": len(views)}))
}

func (h *UsersHandler) get(ctx handler.Context, req userRequest) handler.Response {
	user, err := h.users.Get(ctx, req.UserID)
	if err != nil {
		return h.opts.fail(ctx, err)
	}
	return handler.JSON(newUserView(user, h.opts.now()))
}
