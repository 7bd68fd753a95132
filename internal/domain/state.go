package domain

import (
	"errors"
	"fmt"
)

// SubmissionState is where a form session is in the submit workflow.
type SubmissionState string

const (
	StateIdle         SubmissionState = "idle"
	StateSubmitting   SubmissionState = "submitting"
	StateUploading    SubmissionState = "uploading"
	StateCreateCalled SubmissionState = "create_called"
	StateSucceeded    SubmissionState = "succeeded"
	StateFailed       SubmissionState = "failed"
	StateUploadFailed SubmissionState = "upload_failed"
)

// ErrInvalidTransition is returned when a state change is not allowed.
var ErrInvalidTransition = errors.New("invalid submission state transition")

var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:         {StateSubmitting},
	StateSubmitting:   {StateUploading, StateCreateCalled},
	StateUploading:    {StateUploadFailed, StateCreateCalled},
	StateCreateCalled: {StateSucceeded, StateFailed},
	StateFailed:       {StateSubmitting},
	StateUploadFailed: {StateSubmitting},
}

// IsValid reports whether s is a known state.
func (s SubmissionState) IsValid() bool {
	_, ok := transitions[s]
	return ok || s == StateSucceeded
}

// IsTerminal reports whether the workflow has finished, successfully or not.
func (s SubmissionState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateUploadFailed
}

// IsInFlight reports whether a submit is currently running.
func (s SubmissionState) IsInFlight() bool {
	return s == StateSubmitting || s == StateUploading || s == StateCreateCalled
}

// CanEdit reports whether the draft may still be changed.
func (s SubmissionState) CanEdit() bool {
	return !s.IsInFlight() && s != StateSucceeded
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Validate returns ErrInvalidTransition when s cannot move to next.
func (s SubmissionState) Validate(next SubmissionState) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}
