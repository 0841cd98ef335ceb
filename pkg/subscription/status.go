package subscription

import "github.com/dmitrymomot/subhub/pkg/catalog"

// StatusEntry pairs a catalog service with the user's active subscription to it, if any.
type StatusEntry struct {
	Service      catalog.Service
	Subscription *Subscription
}

// StatusReport has exactly one entry per catalog service, in catalog order.
type StatusReport []StatusEntry

// Map returns the serviceID to active subscription view. Services without one map to nil.
func (r StatusReport) Map() map[string]*Subscription {
	out := make(map[string]*Subscription, len(r))
	for _, entry := range r {
		out[entry.Service.ID] = entry.Subscription
	}
	return out
}

// Active returns only the entries holding an active subscription.
func (r StatusReport) Active() []StatusEntry {
	var out []StatusEntry
	for _, entry := range r {
		if entry.Subscription != nil {
			out = append(out, entry)
		}
	}
	return out
}
