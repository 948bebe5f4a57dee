// Package workflow drives a candidate from a job's detail view to a stored
// application. States and events are enumerated and every move goes through
// the transition table, so an illegal move is an error instead of a silent
// view change.
package workflow

import (
	"errors"
	"fmt"
)

type State string

const (
	StateDetails        State = "DETAILS"
	StateAuth           State = "AUTH"
	StateVerifyPrompt   State = "VERIFY_PROMPT"
	StateForm           State = "FORM"
	StateSubmitting     State = "SUBMITTING"
	StateSuccess        State = "SUCCESS"
	StateAlreadyApplied State = "ALREADY_APPLIED"
)

type Event string

const (
	EventNeedAuth       Event = "need_auth"
	EventNeedVerify     Event = "need_verify"
	EventReady          Event = "ready"
	EventAlreadyApplied Event = "already_applied"
	EventStayOnDetails  Event = "stay_on_details"
	EventSubmit         Event = "submit"
	EventSucceeded      Event = "succeeded"
	EventFailed         Event = "failed"
	EventClose          Event = "close"
)

var (
	ErrIllegalTransition  = errors.New("illegal workflow transition")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrNotAuthenticated   = errors.New("sign in to continue")
	ErrNotVerified        = errors.New("email address is not verified")
	ErrExternalJob        = errors.New("job is handled on an external site")
)

type transition struct {
	from  State
	event Event
}

var table = map[transition]State{
	{StateDetails, EventNeedAuth}:       StateAuth,
	{StateDetails, EventNeedVerify}:     StateVerifyPrompt,
	{StateDetails, EventReady}:          StateForm,
	{StateDetails, EventAlreadyApplied}: StateAlreadyApplied,

	{StateAuth, EventNeedVerify}:     StateVerifyPrompt,
	{StateAuth, EventReady}:          StateForm,
	{StateAuth, EventAlreadyApplied}: StateAlreadyApplied,
	{StateAuth, EventStayOnDetails}:  StateDetails,

	{StateVerifyPrompt, EventReady}:          StateForm,
	{StateVerifyPrompt, EventAlreadyApplied}: StateAlreadyApplied,

	{StateForm, EventSubmit}: StateSubmitting,

	{StateSubmitting, EventSucceeded}:      StateSuccess,
	{StateSubmitting, EventFailed}:         StateForm,
	{StateSubmitting, EventAlreadyApplied}: StateAlreadyApplied,
}

// Next returns the target of event from state. Close is accepted from every
// state and always lands on DETAILS.
func Next(from State, event Event) (State, error) {
	if event == EventClose {
		return StateDetails, nil
	}
	to, ok := table[transition{from: from, event: event}]
	if !ok {
		return from, fmt.Errorf("%w: %s --%s-->", ErrIllegalTransition, from, event)
	}
	return to, nil
}
