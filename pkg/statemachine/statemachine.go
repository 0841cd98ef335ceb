package statemachine

import (
	"context"
	"errors"
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects during a transition. Returning an error prevents the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Transition defines a state change triggered by an event, with optional guards and actions.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // all must pass for transition to proceed
	Actions []Action[S, E] // executed in order before the new state is returned
}

// Table is a concurrency-safe transition lookup: [from][event][]Transition.
type Table[S, E comparable] struct {
	mu          sync.RWMutex
	transitions map[S]map[E][]Transition[S, E]
}

// New returns an empty transition table.
func New[S, E comparable]() *Table[S, E] {
	return &Table[S, E]{
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
}

// Add registers a transition and returns the table for chaining.
// Multiple transitions for the same from/event pair are kept in registration order.
func (t *Table[S, E]) Add(from, to S, event E, guards []Guard[S, E], actions []Action[S, E]) *Table[S, E] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.transitions[from]; !ok {
		t.transitions[from] = make(map[E][]Transition[S, E])
	}

	t.transitions[from][event] = append(t.transitions[from][event], Transition[S, E]{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return t
}

// Fire resolves the transition for (from, event), runs its actions and returns the target state.
// On any error the caller's state must be left as is.
func (t *Table[S, E]) Fire(ctx context.Context, from S, event E, data any) (S, error) {
	transition, err := t.resolve(ctx, from, event, data)
	if err != nil {
		return from, err
	}

	for _, action := range transition.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, transition.To, event, data); err != nil {
			return from, transitionError(from, event, errors.Join(ErrActionFailed, err))
		}
	}

	return transition.To, nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
// Actions are not executed.
func (t *Table[S, E]) CanFire(ctx context.Context, from S, event E, data any) bool {
	_, err := t.resolve(ctx, from, event, data)
	return err == nil
}

// Events lists the events that have at least one transition out of the given state.
func (t *Table[S, E]) Events(from S) []E {
	t.mu.RLock()
	defer t.mu.RUnlock()

	events := make([]E, 0, len(t.transitions[from]))
	for event, transitions := range t.transitions[from] {
		if len(transitions) > 0 {
			events = append(events, event)
		}
	}
	return events
}

func (t *Table[S, E]) resolve(ctx context.Context, from S, event E, data any) (Transition[S, E], error) {
	t.mu.RLock()
	transitions := t.transitions[from][event]
	t.mu.RUnlock()

	if len(transitions) == 0 {
		return Transition[S, E]{}, transitionError(from, event, ErrNoTransition)
	}

	// First transition with passing guards wins
	for _, tr := range transitions {
		if guardsPass(ctx, tr, from, event, data) {
			return tr, nil
		}
	}

	return Transition[S, E]{}, transitionError(from, event, ErrTransitionRejected)
}

func guardsPass[S, E comparable](ctx context.Context, tr Transition[S, E], from S, event E, data any) bool {
	for _, guard := range tr.Guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
