// Package validator builds declarative, field-keyed validation out of small Rule values.
//
// Each rule pairs a Check func with the ValidationError reported when the check fails.
// Apply evaluates every rule and aggregates the failures into ValidationErrors, which
// implements error so all field problems travel in one return value:
//
//	err := validator.Apply(
//	    validator.RequiredString("name", svc.Name),
//	    validator.NonNegativeAmount("price", svc.Price),
//	    validator.ValidCurrencyCode("currency", svc.Currency),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        // render verrs.Get(field)
//	    }
//	}
//
// ValidationErrors matches ErrValidationFailed with errors.Is and survives wrapping with
// errors.Join or fmt.Errorf, so callers can attach their own sentinel and still recover
// the per-field messages with ExtractValidationErrors.
//
// Rules are stateless and safe for concurrent use.
package validator
