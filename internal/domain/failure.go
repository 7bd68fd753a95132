package domain

import (
	"errors"
	"fmt"
)

// FailureKind says which step of the submit workflow failed.
type FailureKind string

const (
	FailureUpload FailureKind = "upload"
	FailureCreate FailureKind = "create"
)

// Failure is a failed collaborator call. Status is the downstream HTTP status,
// or 0 when the call never got a response. Message is the downstream
// explanation when one was returned.
type Failure struct {
	Kind    FailureKind
	Status  int
	Code    string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s failed with status %d: %v", f.Kind, f.Status, f.Err)
	}
	return fmt.Sprintf("%s failed: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err. An error carrying none becomes a
// Failure of the given kind with no status.
func AsFailure(err error, kind FailureKind) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: kind, Err: err}
}
