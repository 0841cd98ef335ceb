// Package binder binds HTTP request data to Go structs for the handler package.
//
// Two binders are provided:
//
//   - JSON(): strict JSON body binding (unknown fields rejected, 1 MiB limit)
//   - Path(extractor): URL path parameters through a router-specific extractor
//
// Binders are applied in order and each only touches its own tags, so one request struct
// can mix sources:
//
//	type UpdateServiceRequest struct {
//		ServiceID string        `path:"serviceID" json:"-"`
//		Patch     catalog.Patch `json:"patch"`
//	}
//
// A binder that does not apply to a request returns ErrBinderNotApplicable and is skipped.
// Other failures wrap one of the package errors so callers can map them to 400 or 415.
package binder
