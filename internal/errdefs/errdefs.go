// Package errdefs classifies engine failures independent of transport.
// The HTTP layer maps each kind to a status code in exactly one place.
package errdefs

import "errors"

// Kind is the failure classification.
type Kind int

const (
	// KindUnknown marks errors this package did not produce.
	KindUnknown Kind = iota
	// KindValidation is a malformed or missing request field.
	KindValidation
	// KindBusinessRule is a well-formed request that violates a ledger rule.
	KindBusinessRule
	// KindConflict is a uniqueness or reference violation at persistence time.
	KindConflict
	// KindNotFound is a reference to a record that does not exist.
	KindNotFound
)

// Error is a classified failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation returns a KindValidation error.
func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

// BusinessRule returns a KindBusinessRule error.
func BusinessRule(msg string) error { return &Error{Kind: KindBusinessRule, Message: msg} }

// Conflict returns a KindConflict error.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// NotFound returns a KindNotFound error.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

// KindOf returns the classification of err, or KindUnknown if err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
