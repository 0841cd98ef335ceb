package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/subhub/handler"
	"github.com/dmitrymomot/subhub/pkg/binder"
	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/subscription"
	"github.com/dmitrymomot/subhub/pkg/validator"
)

// Error codes rendered in the envelope's error.code field.
var (
	errServiceNotFound        = handler.NewHTTPError(http.StatusNotFound, "service_not_found")
	errUserNotFound           = handler.NewHTTPError(http.StatusNotFound, "user_not_found")
	errNotSubscribed          = handler.NewHTTPError(http.StatusNotFound, "not_subscribed")
	errAlreadySubscribed      = handler.NewHTTPError(http.StatusConflict, "already_subscribed")
	errServiceInUse           = handler.NewHTTPError(http.StatusConflict, "service_in_use")
	errServiceExists          = handler.NewHTTPError(http.StatusConflict, "service_exists")
	errVersionConflict        = handler.NewHTTPError(http.StatusConflict, "version_conflict")
	errPaymentFailed          = handler.NewHTTPError(http.StatusPaymentRequired, "payment_failed")
	errInvalidService         = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_service")
	errUnsupportedServiceType = handler.NewHTTPError(http.StatusUnprocessableEntity, "unsupported_service_type")
	errInvalidBillingCycle    = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_billing_cycle")
	errInvalidArgument        = handler.NewHTTPError(http.StatusBadRequest, "invalid_argument")
)

// MapError converts binder, validation, catalog and lifecycle errors into HTTP errors.
// Dependency failures become a bare 500 so store and gateway details stay in the logs.
func MapError(err error) error {
	var httpErr handler.HTTPError
	var valErr handler.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr), errors.As(err, &valErr):
		return err
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return handler.ErrUnsupportedMediaType.WithMessage(clientMessage(err))
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParsePath):
		return handler.ErrBadRequest.WithMessage(clientMessage(err))
	}

	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		fields := handler.NewValidationError()
		for _, e := range verrs {
			fields.Add(e.Field, e.Message)
		}
		return fields
	}

	var base handler.HTTPError
	switch subscription.KindOf(err) {
	case subscription.KindInvalidArgument:
		base = errInvalidArgument
		if errors.Is(err, catalog.ErrInvalidService) {
			base = errInvalidService
		}
	case subscription.KindNotFound:
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			base = errServiceNotFound
		case errors.Is(err, subscription.ErrUserNotFound):
			base = errUserNotFound
		default:
			base = errNotSubscribed
		}
	case subscription.KindConflict:
		switch {
		case errors.Is(err, subscription.ErrAlreadySubscribed):
			base = errAlreadySubscribed
		case errors.Is(err, catalog.ErrServiceInUse):
			base = errServiceInUse
		case errors.Is(err, catalog.ErrServiceExists):
			base = errServiceExists
		default:
			base = errVersionConflict
		}
	case subscription.KindPaymentFailed:
		base = errPaymentFailed
	case subscription.KindUnsupportedServiceType:
		base = errUnsupportedServiceType
	case subscription.KindInvalidBillingCycle:
		base = errInvalidBillingCycle
	default:
		return handler.ErrInternalServerError
	}
	return base.WithMessage(clientMessage(err))
}

// clientMessage strips the operation prefix of lifecycle errors and flattens joined errors.
func clientMessage(err error) string {
	var opErr *subscription.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		err = opErr.Err
	}
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
