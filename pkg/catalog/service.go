package catalog

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dmitrymomot/subhub/pkg/validator"
)

// ServiceType governs which fulfillment path applies to a service.
type ServiceType string

const (
	TypeSubscription ServiceType = "subscription"
	TypeUtility      ServiceType = "utility"
)

var serviceTypes = []ServiceType{TypeSubscription, TypeUtility}

// BillingCycle is the recurrence period of a service, or its absence for one-time purchases.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CycleOneTime   BillingCycle = "one-time"
)

var billingCycles = []BillingCycle{CycleMonthly, CycleQuarterly, CycleYearly, CycleOneTime}

// EndDate advances start by one billing period.
// One-time purchases have no end date and yield nil.
// Day-of-month overflow follows time.AddDate normalization, so 2024-01-31 + 1 month is 2024-03-02.
func (c BillingCycle) EndDate(start time.Time) (*time.Time, error) {
	var end time.Time
	switch c {
	case CycleMonthly:
		end = start.AddDate(0, 1, 0)
	case CycleQuarterly:
		end = start.AddDate(0, 3, 0)
	case CycleYearly:
		end = start.AddDate(1, 0, 0)
	case CycleOneTime:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBillingCycle, string(c))
	}
	return &end, nil
}

// Service is a purchasable catalog entry.
type Service struct {
	ID           string         `json:"id" bson:"_id" yaml:"id"`
	Name         string         `json:"name" bson:"name" yaml:"name"`
	Price        float64        `json:"price" bson:"price" yaml:"price"`
	Currency     string         `json:"currency" bson:"currency" yaml:"currency"`
	BillingCycle BillingCycle   `json:"billing_cycle" bson:"billing_cycle" yaml:"billing_cycle"`
	Type         ServiceType    `json:"type" bson:"type" yaml:"type"`
	Description  string         `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Active       *bool          `json:"active,omitempty" bson:"active,omitempty" yaml:"active,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Validate checks the fields a store relies on. The ID is not checked since stores assign it.
// Failures carry validator.ValidationErrors keyed by the JSON field name.
func (s Service) Validate() error {
	err := validator.Apply(
		validator.RequiredString("name", s.Name),
		validator.NonNegativeAmount("price", s.Price),
		validator.ValidCurrencyCode("currency", s.Currency),
		validator.ValidEnum("billing_cycle", s.BillingCycle, billingCycles),
		validator.ValidEnum("type", s.Type, serviceTypes),
	)
	if err != nil {
		return errors.Join(ErrInvalidService, err)
	}
	return nil
}

// IsActive treats a missing flag as active.
func (s Service) IsActive() bool {
	return s.Active == nil || *s.Active
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name         *string        `json:"name,omitempty"`
	Price        *float64       `json:"price,omitempty"`
	Currency     *string        `json:"currency,omitempty"`
	BillingCycle *BillingCycle  `json:"billing_cycle,omitempty"`
	Type         *ServiceType   `json:"type,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Active       *bool          `json:"active,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Currency == nil && p.BillingCycle == nil &&
		p.Type == nil && p.Description == nil && p.Active == nil && p.Metadata == nil
}

// Apply returns a copy of s with the non-nil patch fields merged in. The ID never changes.
func (p Patch) Apply(s Service) Service {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Active != nil {
		active := *p.Active
		s.Active = &active
	}
	if p.Metadata != nil {
		s.Metadata = maps.Clone(p.Metadata)
	}
	return s
}

// clone copies the reference fields so callers cannot mutate stored values.
func (s Service) clone() Service {
	if s.Active != nil {
		active := *s.Active
		s.Active = &active
	}
	s.Metadata = maps.Clone(s.Metadata)
	return s
}
