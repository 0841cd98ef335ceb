package admin

import (
	"time"

	"github.com/dmitrymomot/subhub/pkg/subscription"
)

type subscriptionView struct {
	ID              string              `json:"id"`
	ServiceID       string              `json:"service_id"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         *time.Time          `json:"end_date"`
	Status          subscription.Status `json:"status"`
	EffectiveStatus subscription.Status `json:"effective_status"`
	Metadata        map[string]any      `json:"metadata,omitempty"`
}

func newSubscriptionView(sub *subscription.Subscription, now time.Time) *subscriptionView {
	if sub == nil {
		return nil
	}
	return &subscriptionView{
		ID:              sub.ID,
		ServiceID:       sub.ServiceID,
		StartDate:       sub.StartDate,
		EndDate:         sub.EndDate,
		Status:          sub.Status,
		EffectiveStatus: sub.EffectiveStatusAt(now),
		Metadata:        sub.Metadata,
	}
}

type userView struct {
	ID            string             `json:"id"`
	Phone         string             `json:"phone"`
	Subscriptions []subscriptionView `json:"subscriptions"`
	Version       int64              `json:"version"`
}

func newUserView(u *subscription.User, now time.Time) userView {
	view := userView{
		ID:            u.ID,
		Phone:         u.Phone,
		Subscriptions: make([]subscriptionView, 0, len(u.Subscriptions)),
		Version:       u.Version,
	}
	for i := range u.Subscriptions {
		view.Subscriptions = append(view.Subscriptions, *newSubscriptionView(&u.Subscriptions[i], now))
	}
	return view
}

type subscribeView struct {
	User         userView                  `json:"user"`
	Subscription *subscriptionView         `json:"subscription"`
	Charge       subscription.ChargeResult `json:"charge"`
}
