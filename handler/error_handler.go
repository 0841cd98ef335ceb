package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/subhub/pkg/logger"
	"github.com/dmitrymomot/subhub/pkg/requestid"
)

// ErrorMapper translates an error into one the JSON renderer understands, usually an HTTPError.
// Returning the error unchanged leaves it to the next mapper.
type ErrorMapper func(err error) error

// StatusOf reports the HTTP status the JSON renderer would use for err.
func StatusOf(err error) int {
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// LogLevel maps a status code to the level its error is logged at.
// Client errors are warnings; everything else is an error.
func LogLevel(status int) slog.Level {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// LogError logs err with the request context it happened in.
func LogError(log *slog.Logger, r *http.Request, err error, status int) {
	log.LogAttrs(r.Context(), LogLevel(status), "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.HTTPRequest(r.Method, r.URL.Path, status),
		logger.Component("error_handler"),
	)
}

// NewErrorHandler creates an error handler that applies the mappers in order,
// logs the original error and renders the mapped one as JSON.
// Configure this once in main.go and pass it to every module.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		mapped := err
		for _, m := range mappers {
			if m != nil {
				mapped = m(mapped)
			}
		}

		status := StatusOf(mapped)
		LogError(log, ctx.Request(), err, status)

		if renderErr := JSONError(mapped).Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
			log.ErrorContext(ctx, "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}
