package subscription

import (
	"context"

	"github.com/dmitrymomot/subhub/pkg/catalog"
)

// PaymentGateway charges a user once for a service.
// A returned error is a fault of the gateway itself; a declined charge is reported
// with Success false and no error.
type PaymentGateway interface {
	Charge(ctx context.Context, userID string, svc catalog.Service) (ChargeResult, error)
}

// ChargeResult is the gateway's verdict for a single charge attempt.
type ChargeResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Reference string `json:"reference,omitempty"` // provider transaction id, when there is one
}

// PaymentFunc adapts a plain function to PaymentGateway.
type PaymentFunc func(ctx context.Context, userID string, svc catalog.Service) (ChargeResult, error)

func (f PaymentFunc) Charge(ctx context.Context, userID string, svc catalog.Service) (ChargeResult, error) {
	return f(ctx, userID, svc)
}

// InstantApproval approves every charge without contacting a provider.
type InstantApproval struct{}

func (InstantApproval) Charge(_ context.Context, _ string, _ catalog.Service) (ChargeResult, error) {
	return ChargeResult{Success: true, Message: "payment approved"}, nil
}
