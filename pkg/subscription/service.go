package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/subhub/pkg/catalog"
	"github.com/dmitrymomot/subhub/pkg/logger"
)

const (
	opSubscribe = "subscribe"
	opCancel    = "cancel"
	opStatus    = "status"
)

// Service is the subscription lifecycle engine.
type Service interface {
	// Subscribe charges the user once, activates the service with the fulfiller and appends
	// an active subscription. Unknown users are provisioned on the fly with ID = Phone = userID.
	Subscribe(ctx context.Context, userID, serviceID string) (*SubscribeResult, error)

	// Cancel deactivates the service and flips the user's active record for it to cancelled.
	// History is kept; nothing is removed.
	Cancel(ctx context.Context, userID, serviceID string) (*User, error)

	// Status reports, for every catalog service in catalog order, the user's active subscription or nil.
	// An unknown user is not an error and yields an all-nil report.
	Status(ctx context.Context, userID string) (StatusReport, error)
}

// SubscribeResult is returned only when every step succeeded.
type SubscribeResult struct {
	User         *User
	Subscription *Subscription
	Charge       ChargeResult
	Outcome      Outcome
}

type service struct {
	catalog   catalog.Store
	users     UserStore
	versioned VersionedUserStore
	payments  PaymentGateway
	fulfiller Fulfiller

	log        *slog.Logger
	now        func() time.Time
	newID      func() string
	optimistic bool
}

// NewService wires the engine to its ports.
// Panics if any port is nil, or if optimistic locking is requested on a store that cannot do it.
func NewService(services catalog.Store, users UserStore, payments PaymentGateway, fulfiller Fulfiller, opts ...ServiceOption) Service {
	if services == nil {
		panic("subscription: catalog Store is required")
	}
	if users == nil {
		panic("subscription: UserStore is required")
	}
	if payments == nil {
		panic("subscription: PaymentGateway is required")
	}
	if fulfiller == nil {
		panic("subscription: Fulfiller is required")
	}

	s := &service{
		catalog:   services,
		users:     users,
		payments:  payments,
		fulfiller: fulfiller,
		log:       logger.Nop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.optimistic {
		versioned, ok := users.(VersionedUserStore)
		if !ok {
			panic(fmt.Sprintf("subscription: optimistic locking requires a VersionedUserStore, got %T", users))
		}
		s.versioned = versioned
	}

	return s
}

func (s *service) Subscribe(ctx context.Context, userID, serviceID string) (*SubscribeResult, error) {
	rejected := func(err error) (*SubscribeResult, error) {
		return nil, s.fail(ctx, opSubscribe, userID, serviceID, OutcomeRejected, err)
	}
	chargedOnly := func(err error) (*SubscribeResult, error) {
		return nil, s.fail(ctx, opSubscribe, userID, serviceID, OutcomeChargedButNotFulfilled, err)
	}

	if userID == "" || serviceID == "" {
		return rejected(fmt.Errorf("%w: user id and service id are required", ErrInvalidArgument))
	}

	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		return rejected(dependency(err))
	}

	user, err := s.loadOrProvision(ctx, userID)
	if err != nil {
		return rejected(dependency(err))
	}

	if user.ActiveSubscription(serviceID) != nil {
		return rejected(ErrAlreadySubscribed)
	}

	charge, err := s.payments.Charge(ctx, userID, *svc)
	if err != nil {
		return rejected(errors.Join(ErrDependencyFailure, err))
	}
	if !charge.Success {
		if charge.Message == "" {
			return rejected(ErrPaymentFailed)
		}
		return rejected(fmt.Errorf("%w: %s", ErrPaymentFailed, charge.Message))
	}

	// From here on the user has paid. Failures leave no subscription behind and are not refunded.
	metadata, err := s.fulfiller.Activate(ctx, userID, *svc)
	if err != nil {
		return chargedOnly(dependency(err))
	}

	start := s.now().UTC()
	end, err := svc.BillingCycle.EndDate(start)
	if err != nil {
		return chargedOnly(err)
	}

	sub := Subscription{
		ID:        s.newID(),
		ServiceID: serviceID,
		StartDate: start,
		EndDate:   end,
		Status:    StatusActive,
		Metadata:  metadata,
	}
	user.Subscriptions = append(user.Subscriptions, sub)

	if err := s.save(ctx, user); err != nil {
		return chargedOnly(dependency(err))
	}

	s.log.InfoContext(ctx, "subscription created",
		logger.Operation(opSubscribe),
		logger.UserID(userID),
		logger.ServiceID(serviceID),
		logger.SubscriptionID(sub.ID),
		slog.String("payment_reference", charge.Reference),
	)

	created := sub.clone()
	return &SubscribeResult{
		User:         user,
		Subscription: &created,
		Charge:       charge,
		Outcome:      OutcomeFullSuccess,
	}, nil
}

func (s *service) Cancel(ctx context.Context, userID, serviceID string) (*User, error) {
	rejected := func(err error) (*User, error) {
		return nil, s.fail(ctx, opCancel, userID, serviceID, OutcomeRejected, err)
	}

	if userID == "" || serviceID == "" {
		return rejected(fmt.Errorf("%w: user id and service id are required", ErrInvalidArgument))
	}

	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		return rejected(dependency(err))
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return rejected(dependency(err))
	}

	active := user.ActiveSubscription(serviceID)
	if active == nil {
		return rejected(ErrNotSubscribed)
	}
	subID := active.ID

	if err := s.fulfiller.Deactivate(ctx, userID, *svc); err != nil {
		return rejected(dependency(err))
	}

	for i := range user.Subscriptions {
		if user.Subscriptions[i].ID != subID {
			continue
		}
		next, err := user.Subscriptions[i].Status.Next(ctx, EventCancel)
		if err != nil {
			return rejected(err)
		}
		user.Subscriptions[i].Status = next
		break
	}

	if err := s.save(ctx, user); err != nil {
		return rejected(dependency(err))
	}

	s.log.InfoContext(ctx, "subscription cancelled",
		logger.Operation(opCancel),
		logger.UserID(userID),
		logger.ServiceID(serviceID),
		logger.SubscriptionID(subID),
	)
	return user, nil
}

func (s *service) Status(ctx context.Context, userID string) (StatusReport, error) {
	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, opStatus, userID, "", OutcomeRejected, dependency(err))
	}

	var user *User
	if userID != "" {
		user, err = s.users.Get(ctx, userID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, s.fail(ctx, opStatus, userID, "", OutcomeRejected, dependency(err))
		}
	}

	report := make(StatusReport, 0, len(services))
	for _, svc := range services {
		entry := StatusEntry{Service: svc}
		if active := user.ActiveSubscription(svc.ID); active != nil {
			sub := active.clone()
			entry.Subscription = &sub
		}
		report = append(report, entry)
	}
	return report, nil
}

// loadOrProvision returns the stored user or creates and persists an empty one.
func (s *service) loadOrProvision(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &User{ID: userID, Phone: userID, Subscriptions: []Subscription{}}
	if s.optimistic {
		err = s.versioned.UpsertVersioned(ctx, user, 0)
		if errors.Is(err, ErrVersionConflict) {
			// provisioned concurrently; continue from the stored record
			return s.users.Get(ctx, userID)
		}
	} else {
		err = s.users.Upsert(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user provisioned", logger.UserID(userID))
	return user, nil
}

func (s *service) save(ctx context.Context, user *User) error {
	if s.optimistic {
		return s.versioned.UpsertVersioned(ctx, user, user.Version)
	}
	return s.users.Upsert(ctx, user)
}

func (s *service) fail(ctx context.Context, op, userID, serviceID string, outcome Outcome, err error) error {
	opErr := &OpError{
		Op:        op,
		UserID:    userID,
		ServiceID: serviceID,
		Outcome:   outcome,
		Err:       err,
	}

	level := slog.LevelWarn
	if outcome == OutcomeChargedButNotFulfilled || KindOf(err) == KindDependencyFailure {
		level = slog.LevelError
	}
	s.log.Log(ctx, level, "subscription operation failed",
		logger.Operation(op),
		logger.UserID(userID),
		logger.ServiceID(serviceID),
		logger.Outcome(string(outcome)),
		slog.String("kind", string(KindOf(err))),
		logger.Error(err),
	)
	return opErr
}

// dependency tags port errors that are not domain rejections.
func dependency(err error) error {
	if err == nil || errors.Is(err, ErrDependencyFailure) || KindOf(err) != KindDependencyFailure {
		return err
	}
	return errors.Join(ErrDependencyFailure, err)
}
