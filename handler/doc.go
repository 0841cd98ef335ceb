// Package handler provides typed JSON HTTP handlers.
//
// A handler receives its request already bound into a struct and returns a Response:
//
//	type SubscribeRequest struct {
//		UserID    string `path:"userID"`
//		ServiceID string `json:"service_id"`
//	}
//
//	func subscribe(ctx handler.Context, req SubscribeRequest) handler.Response {
//		res, err := engine.Subscribe(ctx, req.UserID, req.ServiceID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(res, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/users/{userID}/subscriptions", handler.Wrap(subscribe,
//		handler.WithBinders(binder.Path(chi.URLParam), binder.JSON()),
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
//
// Every body uses the same envelope:
//
//	{"data": ..., "meta": {...}, "error": {"code": "...", "message": "...", "details": {...}}}
//
// HTTPError carries the status and code of a failure; ValidationError renders as 422 with
// per-field details. Errors of any other type render as a generic 500 so internal messages
// never reach clients.
package handler
