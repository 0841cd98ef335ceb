package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/logger"
)

// Fulfiller grants and revokes access to the underlying service with the external provider.
// Both calls fail with catalog.ErrUnsupportedServiceType for types it cannot handle.
type Fulfiller interface {
	Activate(ctx context.Context, userID string, svc catalog.Service) (map[string]any, error)
	Deactivate(ctx context.Context, userID string, svc catalog.Service) error
}

// LocalFulfiller provisions locally: subscription services get a "sub_<id>" handle and
// utilities a "key_<id>" handle.
type LocalFulfiller struct {
	log *slog.Logger
}

// NewLocalFulfiller creates a fulfiller that only logs what it grants and revokes.
func NewLocalFulfiller(log *slog.Logger) *LocalFulfiller {
	if log == nil {
		log = logger.Nop()
	}
	return &LocalFulfiller{log: log}
}

func (f *LocalFulfiller) Activate(ctx context.Context, userID string, svc catalog.Service) (map[string]any, error) {
	handle, err := fulfillmentHandle(svc)
	if err != nil {
		return nil, err
	}

	f.log.InfoContext(ctx, "service activated",
		logger.UserID(userID),
		logger.ServiceID(svc.ID),
		slog.String("type", string(svc.Type)),
	)
	return map[string]any{
		"subscriptionId": handle,
		"userId":         userID,
	}, nil
}

func (f *LocalFulfiller) Deactivate(ctx context.Context, userID string, svc catalog.Service) error {
	if _, err := fulfillmentHandle(svc); err != nil {
		return err
	}

	f.log.InfoContext(ctx, "service deactivated",
		logger.UserID(userID),
		logger.ServiceID(svc.ID),
		slog.String("type", string(svc.Type)),
	)
	return nil
}

func fulfillmentHandle(svc catalog.Service) (string, error) {
	switch svc.Type {
	case catalog.TypeSubscription:
		return "sub_" + svc.ID, nil
	case catalog.TypeUtility:
		return "key_" + svc.ID, nil
	default:
		return "", fmt.Errorf("%w: %q", catalog.ErrUnsupportedServiceType, string(svc.Type))
	}
}
