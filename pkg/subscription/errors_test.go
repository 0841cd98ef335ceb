package subscription_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/subscription"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want subscription.Kind
	}{
		{nil, ""},
		{subscription.ErrInvalidArgument, subscription.KindInvalidArgument},
		{errors.Join(catalog.ErrInvalidService, errors.New("name is required")), subscription.KindInvalidArgument},
		{catalog.ErrServiceNotFound, subscription.KindNotFound},
		{subscription.ErrUserNotFound, subscription.KindNotFound},
		{subscription.ErrNotSubscribed, subscription.KindNotFound},
		{subscription.ErrAlreadySubscribed, subscription.KindConflict},
		{catalog.ErrServiceInUse, subscription.KindConflict},
		{subscription.ErrVersionConflict, subscription.KindConflict},
		{fmt.Errorf("%w: insufficient funds", subscription.ErrPaymentFailed), subscription.KindPaymentFailed},
		{fmt.Errorf("%w: %q", catalog.ErrUnsupportedServiceType, "bundle"), subscription.KindUnsupportedServiceType},
		{fmt.Errorf("%w: %q", catalog.ErrInvalidBillingCycle, "weekly"), subscription.KindInvalidBillingCycle},
		{errors.New("socket closed"), subscription.KindDependencyFailure},
		{errors.Join(subscription.ErrDependencyFailure, subscription.ErrUserNotFound), subscription.KindDependencyFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, subscription.KindOf(tt.err), "%v", tt.err)
	}
}

func TestOpError(t *testing.T) {
	t.Parallel()

	t.Run("message carries context", func(t *testing.T) {
		t.Parallel()
		err := &subscription.OpError{
			Op:        "subscribe",
			UserID:    "u1",
			ServiceID: "svc-A",
			Outcome:   subscription.OutcomeChargedButNotFulfilled,
			Err:       errors.New("provider timeout"),
		}
		assert.Equal(t, "subscription: subscribe user=u1 service=svc-A outcome=charged_but_not_fulfilled: provider timeout", err.Error())
	})

	t.Run("rejected outcome is implied", func(t *testing.T) {
		t.Parallel()
		err := &subscription.OpError{Op: "cancel", UserID: "u1", Outcome: subscription.OutcomeRejected, Err: subscription.ErrNotSubscribed}
		assert.Equal(t, "subscription: cancel user=u1: "+subscription.ErrNotSubscribed.Error(), err.Error())
	})

	t.Run("unwraps to sentinel", func(t *testing.T) {
		t.Parallel()
		var err error = &subscription.OpError{Op: "subscribe", Err: fmt.Errorf("%w: declined", subscription.ErrPaymentFailed)}
		assert.ErrorIs(t, err, subscription.ErrPaymentFailed)
		assert.Equal(t, subscription.KindPaymentFailed, subscription.KindOf(err))
	})
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, subscription.OutcomeFullSuccess, subscription.OutcomeOf(nil))
	assert.Equal(t, subscription.OutcomeRejected, subscription.OutcomeOf(errors.New("plain")))

	wrapped := fmt.Errorf("handler: %w", &subscription.OpError{Outcome: subscription.OutcomeChargedButNotFulfilled})
	assert.Equal(t, subscription.OutcomeChargedButNotFulfilled, subscription.OutcomeOf(wrapped))
}
