package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransition       = errors.New("no transition defined")
	ErrTransitionRejected = errors.New("transition rejected by guards")
	ErrActionFailed       = errors.New("transition action failed")
)

// TransitionError records the state and event a failed Fire was called with.
// Match the cause with errors.Is against the sentinels above.
type TransitionError struct {
	From  string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: from %q on %q", e.Err, e.From, e.Event)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func transitionError[S, E comparable](from S, event E, err error) error {
	return &TransitionError{From: fmt.Sprint(from), Event: fmt.Sprint(event), Err: err}
}
