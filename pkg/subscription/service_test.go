package subscription_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/subscription"
)

var fixedNow = time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) Charge(ctx context.Context, userID string, svc catalog.Service) (subscription.ChargeResult, error) {
	args := m.Called(ctx, userID, svc)
	return args.Get(0).(subscription.ChargeResult), args.Error(1)
}

type mockFulfiller struct {
	mock.Mock
}

func (m *mockFulfiller) Activate(ctx context.Context, userID string, svc catalog.Service) (map[string]any, error) {
	args := m.Called(ctx, userID, svc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockFulfiller) Deactivate(ctx context.Context, userID string, svc catalog.Service) error {
	args := m.Called(ctx, userID, svc)
	return args.Error(0)
}

// countingStore records writes so tests can assert a path never touched storage.
type countingStore struct {
	*subscription.MemoryUserStore
	upserts atomic.Int32
}

func (c *countingStore) Upsert(ctx context.Context, u *subscription.User) error {
	c.upserts.Add(1)
	return c.MemoryUserStore.Upsert(ctx, u)
}

type fixture struct {
	catalog *catalog.MemoryStore
	users   *countingStore
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("sub-%d", n.Add(1))
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	services := catalog.NewMemoryStore()
	for _, svc := range []catalog.Service{
		{ID: "svc-A", Name: "Music", Price: 9.99, Currency: "USD", BillingCycle: catalog.CycleMonthly, Type: catalog.TypeSubscription},
		{ID: "svc-B", Name: "Top-up", Price: 5, Currency: "EUR", BillingCycle: catalog.CycleOneTime, Type: catalog.TypeUtility},
		{ID: "svc-C", Name: "News", Price: 25, Currency: "USD", BillingCycle: catalog.CycleQuarterly, Type: catalog.TypeSubscription},
		{ID: "svc-D", Name: "Cloud", Price: 99, Currency: "USD", BillingCycle: catalog.CycleYearly, Type: catalog.TypeUtility},
	} {
		_, err := services.Create(context.Background(), svc)
		require.NoError(t, err)
	}

	return &fixture{
		catalog: services,
		users:   &countingStore{MemoryUserStore: subscription.NewMemoryUserStore()},
	}
}

func (f *fixture) engine(payments subscription.PaymentGateway, fulfiller subscription.Fulfiller, opts ...subscription.ServiceOption) subscription.Service {
	opts = append([]subscription.ServiceOption{
		subscription.WithClock(func() time.Time { return fixedNow }),
		subscription.WithIDGenerator(sequentialIDs()),
	}, opts...)
	return subscription.NewService(f.catalog, f.users, payments, fulfiller, opts...)
}

func (f *fixture) defaultEngine(opts ...subscription.ServiceOption) subscription.Service {
	return f.engine(subscription.InstantApproval{}, subscription.NewLocalFulfiller(nil), opts...)
}

func TestNewService_PanicsOnMissingPorts(t *testing.T) {
	t.Parallel()

	store := catalog.NewMemoryStore()
	users := subscription.NewMemoryUserStore()
	pay := subscription.InstantApproval{}
	ful := subscription.NewLocalFulfiller(nil)

	assert.Panics(t, func() { subscription.NewService(nil, users, pay, ful) })
	assert.Panics(t, func() { subscription.NewService(store, nil, pay, ful) })
	assert.Panics(t, func() { subscription.NewService(store, users, nil, ful) })
	assert.Panics(t, func() { subscription.NewService(store, users, pay, nil) })
	assert.NotPanics(t, func() { subscription.NewService(store, users, pay, ful, subscription.WithOptimisticLocking()) })
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("auto-provisions unknown user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		res, err := f.defaultEngine().Subscribe(ctx, "new-user-1", "svc-A")
		require.NoError(t, err)
		assert.Equal(t, subscription.OutcomeFullSuccess, res.Outcome)
		assert.True(t, res.Charge.Success)

		stored, err := f.users.Get(ctx, "new-user-1")
		require.NoError(t, err)
		assert.Equal(t, "new-user-1", stored.ID)
		assert.Equal(t, "new-user-1", stored.Phone)
		require.Len(t, stored.Subscriptions, 1)

		sub := stored.Subscriptions[0]
		assert.Equal(t, "svc-A", sub.ServiceID)
		assert.Equal(t, subscription.StatusActive, sub.Status)
		assert.Equal(t, "sub-1", sub.ID)
		assert.Equal(t, fixedNow, sub.StartDate)
		assert.Equal(t, map[string]any{"subscriptionId": "sub_svc-A", "userId": "new-user-1"}, sub.Metadata)
		assert.Equal(t, res.Subscription.ID, sub.ID)
	})

	t.Run("billing dates per cycle", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			serviceID string
			want      *time.Time
		}{
			{"svc-A", ptr(time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC))},
			{"svc-B", nil},
			{"svc-C", ptr(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))},
			{"svc-D", ptr(time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC))},
		}

		f := newFixture(t)
		engine := f.defaultEngine()

		for _, tt := range tests {
			res, err := engine.Subscribe(context.Background(), "user-dates", tt.serviceID)
			require.NoError(t, err, tt.serviceID)
			if tt.want == nil {
				assert.Nil(t, res.Subscription.EndDate, tt.serviceID)
				continue
			}
			require.NotNil(t, res.Subscription.EndDate, tt.serviceID)
			assert.Equal(t, *tt.want, *res.Subscription.EndDate, tt.serviceID)
		}
	})

	t.Run("utility services get a key handle", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res, err := f.defaultEngine().Subscribe(context.Background(), "u1", "svc-B")
		require.NoError(t, err)
		assert.Equal(t, "key_svc-B", res.Subscription.Metadata["subscriptionId"])
	})

	t.Run("rejects a second active subscription", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		engine := f.defaultEngine()
		ctx := context.Background()

		_, err := engine.Subscribe(ctx, "u1", "svc-A")
		require.NoError(t, err)

		res, err := engine.Subscribe(ctx, "u1", "svc-A")
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, subscription.ErrAlreadySubscribed)
		assert.Equal(t, subscription.KindConflict, subscription.KindOf(err))
		assert.Equal(t, subscription.OutcomeRejected, subscription.OutcomeOf(err))

		stored, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, stored.Subscriptions, 1)
	})

	t.Run("unknown service", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.defaultEngine().Subscribe(context.Background(), "u1", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
		assert.Equal(t, subscription.KindNotFound, subscription.KindOf(err))

		var opErr *subscription.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "subscribe", opErr.Op)
		assert.Equal(t, "u1", opErr.UserID)
		assert.Equal(t, "nope", opErr.ServiceID)

		_, err = f.users.Get(context.Background(), "u1")
		assert.ErrorIs(t, err, subscription.ErrUserNotFound, "no user is provisioned for an unknown service")
	})

	t.Run("empty ids", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.defaultEngine().Subscribe(context.Background(), "", "svc-A")
		assert.Equal(t, subscription.KindInvalidArgument, subscription.KindOf(err))
	})

	t.Run("declined payment never writes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		require.NoError(t, f.users.MemoryUserStore.Upsert(ctx, &subscription.User{ID: "u1", Phone: "u1"}))
		before, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)

		payments := &mockPayments{}
		payments.On("Charge", mock.Anything, "u1", mock.AnythingOfType("catalog.Service")).
			Return(subscription.ChargeResult{Success: false, Message: "card declined"}, nil).Once()
		fulfiller := &mockFulfiller{}

		_, err = f.engine(payments, fulfiller).Subscribe(ctx, "u1", "svc-A")
		require.Error(t, err)
		assert.ErrorIs(t, err, subscription.ErrPaymentFailed)
		assert.Contains(t, err.Error(), "card declined")
		assert.Equal(t, subscription.KindPaymentFailed, subscription.KindOf(err))
		assert.Equal(t, subscription.OutcomeRejected, subscription.OutcomeOf(err))

		assert.Zero(t, f.users.upserts.Load(), "user store must not be written")
		after, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, before, after)

		payments.AssertExpectations(t)
		fulfiller.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("payment gateway fault is a dependency failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		payments := subscription.PaymentFunc(func(context.Context, string, catalog.Service) (subscription.ChargeResult, error) {
			return subscription.ChargeResult{}, errors.New("connection reset")
		})

		_, err := f.engine(payments, subscription.NewLocalFulfiller(nil)).Subscribe(context.Background(), "u1", "svc-A")
		require.Error(t, err)
		assert.ErrorIs(t, err, subscription.ErrDependencyFailure)
		assert.Equal(t, subscription.KindDependencyFailure, subscription.KindOf(err))
		assert.Equal(t, subscription.OutcomeRejected, subscription.OutcomeOf(err))
	})

	t.Run("fulfillment failure after charge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		payments := &mockPayments{}
		payments.On("Charge", mock.Anything, "u1", mock.Anything).
			Return(subscription.ChargeResult{Success: true, Reference: "txn_1"}, nil).Once()
		fulfiller := &mockFulfiller{}
		fulfiller.On("Activate", mock.Anything, "u1", mock.Anything).
			Return(nil, errors.New("provider timeout")).Once()

		res, err := f.engine(payments, fulfiller).Subscribe(ctx, "u1", "svc-A")
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, subscription.OutcomeChargedButNotFulfilled, subscription.OutcomeOf(err))
		assert.Equal(t, subscription.KindDependencyFailure, subscription.KindOf(err))
		assert.Contains(t, err.Error(), "outcome=charged_but_not_fulfilled")

		stored, err := f.users.Get(ctx, "u1")
		require.NoError(t, err, "the provisioned user remains")
		assert.Empty(t, stored.Subscriptions, "no subscription is recorded for the charge")

		payments.AssertNumberOfCalls(t, "Charge", 1)
		fulfiller.AssertExpectations(t)
	})

	t.Run("unsupported service type aborts after charge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		// stores do not validate, so bad data can reach the engine
		_, err := f.catalog.Create(ctx, catalog.Service{ID: "svc-X", Name: "Legacy", Currency: "USD", BillingCycle: catalog.CycleMonthly, Type: "bundle"})
		require.NoError(t, err)

		var charged atomic.Int32
		payments := subscription.PaymentFunc(func(context.Context, string, catalog.Service) (subscription.ChargeResult, error) {
			charged.Add(1)
			return subscription.ChargeResult{Success: true}, nil
		})

		_, err = f.engine(payments, subscription.NewLocalFulfiller(nil)).Subscribe(ctx, "u1", "svc-X")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrUnsupportedServiceType)
		assert.Equal(t, subscription.KindUnsupportedServiceType, subscription.KindOf(err))
		assert.Equal(t, subscription.OutcomeChargedButNotFulfilled, subscription.OutcomeOf(err))
		assert.Equal(t, int32(1), charged.Load())
	})

	t.Run("invalid billing cycle aborts after charge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.catalog.Create(ctx, catalog.Service{ID: "svc-W", Name: "Weekly", Currency: "USD", BillingCycle: "weekly", Type: catalog.TypeSubscription})
		require.NoError(t, err)

		_, err = f.defaultEngine().Subscribe(ctx, "u1", "svc-W")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrInvalidBillingCycle)
		assert.Equal(t, subscription.KindInvalidBillingCycle, subscription.KindOf(err))
		assert.Equal(t, subscription.OutcomeChargedButNotFulfilled, subscription.OutcomeOf(err))
	})
}

func TestCancel(t *testing.T) {
	t.Parallel()

	t.Run("flips only the active record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		engine := f.defaultEngine()
		ctx := context.Background()

		_, err := engine.Subscribe(ctx, "u1", "svc-A")
		require.NoError(t, err)
		_, err = engine.Subscribe(ctx, "u1", "svc-C")
		require.NoError(t, err)

		user, err := engine.Cancel(ctx, "u1", "svc-A")
		require.NoError(t, err)
		require.Len(t, user.Subscriptions, 2)
		assert.Equal(t, subscription.StatusCancelled, user.Subscriptions[0].Status)
		assert.Equal(t, subscription.StatusActive, user.Subscriptions[1].Status)

		stored, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, user.Subscriptions, stored.Subscriptions)
	})

	t.Run("not subscribed does not mutate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		engine := f.defaultEngine()
		ctx := context.Background()

		_, err := engine.Subscribe(ctx, "u1", "svc-A")
		require.NoError(t, err)
		_, err = engine.Cancel(ctx, "u1", "svc-A")
		require.NoError(t, err)

		before, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		writes := f.users.upserts.Load()

		for _, serviceID := range []string{"svc-A", "svc-B"} {
			user, err := engine.Cancel(ctx, "u1", serviceID)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, subscription.ErrNotSubscribed)
			assert.Equal(t, subscription.KindNotFound, subscription.KindOf(err))
		}

		after, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, writes, f.users.upserts.Load())
	})

	t.Run("unknown user and service", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		engine := f.defaultEngine()

		_, err := engine.Cancel(context.Background(), "ghost", "svc-A")
		assert.ErrorIs(t, err, subscription.ErrUserNotFound)
		assert.Equal(t, subscription.KindNotFound, subscription.KindOf(err))

		_, err = engine.Cancel(context.Background(), "ghost", "nope")
		assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
	})

	t.Run("deactivation failure keeps the record active", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		fulfiller := &mockFulfiller{}
		fulfiller.On("Activate", mock.Anything, "u1", mock.Anything).Return(map[string]any{"subscriptionId": "sub_svc-A"}, nil)
		fulfiller.On("Deactivate", mock.Anything, "u1", mock.Anything).Return(errors.New("provider down"))

		engine := f.engine(subscription.InstantApproval{}, fulfiller)
		_, err := engine.Subscribe(ctx, "u1", "svc-A")
		require.NoError(t, err)

		_, err = engine.Cancel(ctx, "u1", "svc-A")
		require.Error(t, err)
		assert.Equal(t, subscription.KindDependencyFailure, subscription.KindOf(err))

		stored, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, stored.Subscriptions[0].Status)
	})
}

func TestHistoryPreservation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	engine := f.defaultEngine()
	ctx := context.Background()

	first, err := engine.Subscribe(ctx, "u1", "svc-A")
	require.NoError(t, err)
	_, err = engine.Cancel(ctx, "u1", "svc-A")
	require.NoError(t, err)
	second, err := engine.Subscribe(ctx, "u1", "svc-A")
	require.NoError(t, err)

	stored, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Subscriptions, 2)

	cancelled, active := stored.Subscriptions[0], stored.Subscriptions[1]
	assert.Equal(t, subscription.StatusCancelled, cancelled.Status)
	assert.Equal(t, subscription.StatusActive, active.Status)
	assert.NotEqual(t, cancelled.ID, active.ID)
	assert.Equal(t, first.Subscription.ID, cancelled.ID)
	assert.Equal(t, second.Subscription.ID, active.ID)
	assert.Equal(t, first.Subscription.StartDate, cancelled.StartDate)
	assert.Equal(t, first.Subscription.EndDate, cancelled.EndDate)
}

func TestUniquenessInvariant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	engine := f.defaultEngine()
	ctx := context.Background()

	steps := []struct {
		cancel    bool
		serviceID string
	}{
		{false, "svc-A"}, {false, "svc-B"}, {false, "svc-A"}, {true, "svc-A"},
		{true, "svc-A"}, {false, "svc-A"}, {false, "svc-B"}, {true, "svc-B"}, {false, "svc-B"},
	}
	for _, step := range steps {
		if step.cancel {
			_, _ = engine.Cancel(ctx, "u1", step.serviceID)
		} else {
			_, _ = engine.Subscribe(ctx, "u1", step.serviceID)
		}

		stored, err := f.users.Get(ctx, "u1")
		require.NoError(t, err)
		active := map[string]int{}
		for _, sub := range stored.Subscriptions {
			if sub.Status == subscription.StatusActive {
				active[sub.ServiceID]++
			}
		}
		for serviceID, n := range active {
			assert.LessOrEqual(t, n, 1, "service %s has %d active subscriptions", serviceID, n)
		}
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	t.Run("one entry per catalog service in catalog order", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		engine := f.defaultEngine()
		ctx := context.Background()

		for range 3 {
			_, err := engine.Subscribe(ctx, "u1", "svc-C")
			require.NoError(t, err)
			_, err = engine.Cancel(ctx, "u1", "svc-C")
			require.NoError(t, err)
		}
		_, err := engine.Subscribe(ctx, "u1", "svc-B")
		require.NoError(t, err)

		report, err := engine.Status(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, report, 4)

		ids := make([]string, 0, len(report))
		for _, entry := range report {
			ids = append(ids, entry.Service.ID)
		}
		assert.Equal(t, []string{"svc-A", "svc-B", "svc-C", "svc-D"}, ids)

		m := report.Map()
		assert.Len(t, m, 4)
		assert.Nil(t, m["svc-A"])
		require.NotNil(t, m["svc-B"])
		assert.Equal(t, subscription.StatusActive, m["svc-B"].Status)
		assert.Nil(t, m["svc-C"], "cancelled history is not reported")
		assert.Nil(t, m["svc-D"])
		assert.Len(t, report.Active(), 1)
	})

	t.Run("unknown user yields all-absent entries", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		report, err := f.defaultEngine().Status(context.Background(), "ghost")
		require.NoError(t, err)
		require.Len(t, report, 4)
		for _, entry := range report {
			assert.Nil(t, entry.Subscription)
		}
	})

	t.Run("tracks catalog changes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.catalog.Create(ctx, catalog.Service{ID: "svc-E", Name: "Extra", Currency: "USD", BillingCycle: catalog.CycleMonthly, Type: catalog.TypeSubscription})
		require.NoError(t, err)

		report, err := f.defaultEngine().Status(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, report, 5)
		assert.Contains(t, report.Map(), "svc-E")
	})
}

// barrierPayments holds every caller until n calls have arrived.
func barrierPayments(n int) (subscription.PaymentGateway, *atomic.Int32) {
	var (
		arrived sync.WaitGroup
		charges atomic.Int32
	)
	arrived.Add(n)
	return subscription.PaymentFunc(func(context.Context, string, catalog.Service) (subscription.ChargeResult, error) {
		charges.Add(1)
		arrived.Done()
		arrived.Wait()
		return subscription.ChargeResult{Success: true}, nil
	}), &charges
}

func concurrentSubscribe(engine subscription.Service, userID, serviceID string, n int) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = engine.Subscribe(context.Background(), userID, serviceID)
		}()
	}
	wg.Wait()
	return errs
}

func TestConcurrentSubscribe_LostUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Upsert(ctx, &subscription.User{ID: "u1", Phone: "u1"}))

	payments, charges := barrierPayments(2)
	engine := f.engine(payments, subscription.NewLocalFulfiller(nil))

	errs := concurrentSubscribe(engine, "u1", "svc-A", 2)
	for _, err := range errs {
		require.NoError(t, err, "both calls pass the duplicate check")
	}
	assert.Equal(t, int32(2), charges.Load(), "the user is charged twice")

	stored, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Subscriptions, 1, "the slower write overwrites the faster one")
}

func TestConcurrentSubscribe_OptimisticLocking(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.Upsert(ctx, &subscription.User{ID: "u1", Phone: "u1"}))

	payments, _ := barrierPayments(2)
	engine := f.engine(payments, subscription.NewLocalFulfiller(nil), subscription.WithOptimisticLocking())

	errs := concurrentSubscribe(engine, "u1", "svc-A", 2)

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, subscription.ErrVersionConflict):
			conflicted++
			assert.Equal(t, subscription.KindConflict, subscription.KindOf(err))
			assert.Equal(t, subscription.OutcomeChargedButNotFulfilled, subscription.OutcomeOf(err))
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	stored, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Subscriptions, 1)
	assert.Equal(t, subscription.StatusActive, stored.Subscriptions[0].Status)
}

func TestOptimisticLocking_SequentialOperations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	engine := f.defaultEngine(subscription.WithOptimisticLocking())
	ctx := context.Background()

	res, err := engine.Subscribe(ctx, "u1", "svc-A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.User.Version, "provisioning writes version 1, the subscription version 2")

	user, err := engine.Cancel(ctx, "u1", "svc-A")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.Version)
}

func ptr[T any](v T) *T {
	return &v
}
