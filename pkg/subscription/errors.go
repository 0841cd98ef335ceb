package subscription

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/subhub/pkg/catalog"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadySubscribed = errors.New("user already has an active subscription to this service")
	ErrNotSubscribed     = errors.New("user has no active subscription to this service")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrVersionConflict   = errors.New("user record was modified concurrently")

	// ErrDependencyFailure marks faults of a store or capability port, as opposed to domain rejections.
	ErrDependencyFailure = errors.New("dependency failure")

	ErrMissingAPIKey      = errors.New("billing provider API key is required")
	ErrInvalidPaddleEnv   = errors.New("invalid paddle environment")
	ErrMissingPaddlePrice = errors.New("service has no paddle_price_id in metadata")
)

// Kind groups errors by how a caller should react to them.
type Kind string

const (
	KindInvalidArgument        Kind = "invalid_argument"
	KindNotFound               Kind = "not_found"
	KindConflict               Kind = "conflict"
	KindPaymentFailed          Kind = "payment_failed"
	KindUnsupportedServiceType Kind = "unsupported_service_type"
	KindInvalidBillingCycle    Kind = "invalid_billing_cycle"
	KindDependencyFailure      Kind = "dependency_failure"
)

// KindOf classifies err. Nil yields an empty Kind; anything unrecognised is a dependency failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDependencyFailure):
		return KindDependencyFailure
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, catalog.ErrInvalidService), errors.Is(err, catalog.ErrEmptyPatch):
		return KindInvalidArgument
	case errors.Is(err, catalog.ErrServiceNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNotSubscribed):
		return KindNotFound
	case errors.Is(err, ErrAlreadySubscribed), errors.Is(err, catalog.ErrServiceInUse),
		errors.Is(err, catalog.ErrServiceExists), errors.Is(err, ErrVersionConflict):
		return KindConflict
	case errors.Is(err, ErrPaymentFailed):
		return KindPaymentFailed
	case errors.Is(err, catalog.ErrUnsupportedServiceType):
		return KindUnsupportedServiceType
	case errors.Is(err, catalog.ErrInvalidBillingCycle):
		return KindInvalidBillingCycle
	default:
		return KindDependencyFailure
	}
}

// Outcome records how far a lifecycle operation got before it returned.
type Outcome string

const (
	OutcomeFullSuccess Outcome = "full_success"

	// OutcomeChargedButNotFulfilled means the payment went through but no subscription was stored.
	// No refund is attempted.
	OutcomeChargedButNotFulfilled Outcome = "charged_but_not_fulfilled"

	OutcomeRejected Outcome = "rejected"
)

// OpError annotates a lifecycle failure with the operation and ids involved.
type OpError struct {
	Op        string
	UserID    string
	ServiceID string
	Outcome   Outcome
	Err       error
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString("subscription: ")
	b.WriteString(e.Op)
	if e.UserID != "" {
		fmt.Fprintf(&b, " user=%s", e.UserID)
	}
	if e.ServiceID != "" {
		fmt.Fprintf(&b, " service=%s", e.ServiceID)
	}
	if e.Outcome != "" && e.Outcome != OutcomeRejected {
		fmt.Fprintf(&b, " outcome=%s", e.Outcome)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// OutcomeOf extracts the outcome carried by an OpError in err's chain.
// Returns OutcomeFullSuccess for nil and OutcomeRejected for errors without one.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeFullSuccess
	}
	var opErr *OpError
	if errors.As(err, &opErr) && opErr.Outcome != "" {
		return opErr.Outcome
	}
	return OutcomeRejected
}
