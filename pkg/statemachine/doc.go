// Package statemachine provides a typed transition table for finite-state
// machines whose current state lives outside the machine, typically as a
// field on a persisted record.
//
// A Table maps (from state, event) pairs to one or more transitions. Each
// transition may carry guards that veto it and actions that run before the
// new state is returned. Because the table holds no current state, one table
// can be shared by every record of a given type and used concurrently.
//
// # Usage
//
//	type Status string
//	type Event string
//
//	table := statemachine.New[Status, Event]().
//	    Add("active", "cancelled", "cancel", nil, nil).
//	    Add("active", "expired", "expire", nil, nil)
//
//	next, err := table.Fire(ctx, record.Status, "cancel", record)
//	if err != nil {
//	    return err
//	}
//	record.Status = next
//
// # Guards and Actions
//
// Guards are evaluated in order and all must pass. When several transitions
// share a (from, event) pair the first one whose guards pass wins, which
// allows priority ordering. Actions run after guards and before Fire returns;
// the first failing action aborts the transition.
//
// # Error Handling
//
//	if errors.Is(err, statemachine.ErrNoTransition) { /* undefined pair */ }
//	if errors.Is(err, statemachine.ErrTransitionRejected) { /* guards vetoed */ }
package statemachine
