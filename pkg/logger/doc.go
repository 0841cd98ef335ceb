// Package logger builds the process *slog.Logger.
//
// New applies functional options on top of a JSON/info default:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//
// Records logged with a context pass through a handler that runs
// each ContextExtractor and appends what it finds. This is how every line
// emitted while serving a request carries its request_id.
//
// The attribute helpers (UserID, ServiceID, SubscriptionID, Error, ...) keep key
// names consistent. Helpers taking an id or an error return an empty Attr for
// the zero value, which slog drops, so callers never need a nil check:
//
//	log.ErrorContext(ctx, "cancel failed", logger.UserID(userID), logger.Error(err))
package logger
