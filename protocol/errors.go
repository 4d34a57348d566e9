// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"fmt"
)

// HandlerError is a client-visible failure of a message handler. The
// wire name travels in the "error" field of the failure reply:
//
//	{"from": <actor>, "error": <wire name>}
//
// The set of names is fixed by the external frontend. The frontend
// checks for specific protocol errors by catching an exception whose
// message contains the error name and testing substring containment, so
// the only safe wire name for errors outside the documented set is the
// empty string: any other custom name may be a substring of an upstream
// error name.
type HandlerError struct {
	wireName string
	cause    error
}

// Handler errors for the documented protocol failure modes. Compare
// with errors.Is; they carry no cause.
var (
	// ErrMissingParameter reports a required message field that is absent.
	ErrMissingParameter = &HandlerError{wireName: "missingParameter"}
	// ErrBadParameterType reports a message field of the wrong JSON type.
	ErrBadParameterType = &HandlerError{wireName: "badParameterType"}
	// ErrUnrecognizedPacketType reports an operation name the destination
	// actor does not support.
	ErrUnrecognizedPacketType = &HandlerError{wireName: "unrecognizedPacketType"}
)

// Internal wraps a server-side fault (collaborator channel failure,
// stream write failure, anything that prevented a normal reply) into
// the reserved empty-string error kind. The cause is visible only in
// server logs, never on the wire.
func Internal(cause error) *HandlerError {
	return &HandlerError{wireName: "", cause: cause}
}

// Internalf is Internal with fmt.Errorf formatting.
func Internalf(format string, args ...any) *HandlerError {
	return Internal(fmt.Errorf(format, args...))
}

func (e *HandlerError) Error() string {
	if e.wireName == "" {
		if e.cause != nil {
			return fmt.Sprintf("internal handler error: %v", e.cause)
		}
		return "internal handler error"
	}
	return e.wireName
}

func (e *HandlerError) Unwrap() error {
	return e.cause
}

// Is matches any two handler errors of the same wire name, so
// errors.Is(err, ErrMissingParameter) works on wrapped instances.
func (e *HandlerError) Is(target error) bool {
	t, ok := target.(*HandlerError)
	return ok && t.wireName == e.wireName
}

// WireName returns the "error" field value for a handler failure. Any
// error that is not a HandlerError is an internal fault and maps to the
// reserved empty string.
func WireName(err error) string {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.wireName
	}
	return ""
}
