package subscription

import (
	"context"
	"maps"
	"time"

	"github.com/dmitrymomot/subhub/pkg/statemachine"
)

// Status is the stored state of a subscription record.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Event drives a status transition.
type Event string

const (
	EventCancel Event = "cancel"
	EventExpire Event = "expire"
)

// Active is the only status with outgoing transitions.
var statusTransitions = statemachine.New[Status, Event]().
	Add(StatusActive, StatusCancelled, EventCancel, nil, nil).
	Add(StatusActive, StatusExpired, EventExpire, nil, nil)

// Next returns the status reached from s by event, or an error if the transition is not allowed.
func (s Status) Next(ctx context.Context, event Event) (Status, error) {
	return statusTransitions.Fire(ctx, s, event, nil)
}

// Subscription is one record in a user's history. Only Status ever changes after creation.
type Subscription struct {
	ID        string         `json:"id" bson:"id"`
	ServiceID string         `json:"service_id" bson:"service_id"`
	StartDate time.Time      `json:"start_date" bson:"start_date"`
	EndDate   *time.Time     `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Status    Status         `json:"status" bson:"status"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// EffectiveStatusAt derives expiry lazily: an active record whose end date has passed reads as expired.
// The stored Status is not changed.
func (s Subscription) EffectiveStatusAt(now time.Time) Status {
	if s.Status == StatusActive && s.EndDate != nil && !now.Before(*s.EndDate) {
		if next, err := s.Status.Next(context.Background(), EventExpire); err == nil {
			return next
		}
	}
	return s.Status
}

func (s Subscription) clone() Subscription {
	if s.EndDate != nil {
		end := *s.EndDate
		s.EndDate = &end
	}
	s.Metadata = maps.Clone(s.Metadata)
	return s
}

// User owns an ordered subscription history. The ID equals the phone number in current usage.
type User struct {
	ID            string         `json:"id" bson:"_id"`
	Phone         string         `json:"phone" bson:"phone"`
	Subscriptions []Subscription `json:"subscriptions" bson:"subscriptions"`

	// Version is the optimistic concurrency token maintained by the stores.
	Version int64 `json:"version" bson:"version"`
}

// ActiveSubscription returns the active record for serviceID, or nil.
func (u *User) ActiveSubscription(serviceID string) *Subscription {
	if u == nil {
		return nil
	}
	for i := range u.Subscriptions {
		if u.Subscriptions[i].ServiceID == serviceID && u.Subscriptions[i].Status == StatusActive {
			return &u.Subscriptions[i]
		}
	}
	return nil
}

// HasServiceReference reports whether any record, in any status, points at serviceID.
func (u *User) HasServiceReference(serviceID string) bool {
	for _, sub := range u.Subscriptions {
		if sub.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to mutate.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Subscriptions != nil {
		out.Subscriptions = make([]Subscription, len(u.Subscriptions))
		for i, sub := range u.Subscriptions {
			out.Subscriptions[i] = sub.clone()
		}
	}
	return &out
}
