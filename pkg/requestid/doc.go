// Package requestid tags each API request with an id that ends up in the
// X-Request-ID response header and in every log line written for the request.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor()))
//	r.Use(requestid.New())
//
// A client supplied id is reused when it is short and made of [A-Za-z0-9_-];
// anything else is replaced by a generated one so it is safe to log.
package requestid
