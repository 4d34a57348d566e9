// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"github.com/tern-browser/tern/protocol"
)

// Kind is the static description of an actor type: the prefix its
// names are derived from, and whether at most one instance may exist.
// Singleton kinds (the root actor, the preference actor) always get the
// bare prefix as their name.
type Kind struct {
	Prefix    string
	Singleton bool
}

// Actor is the capability set shared by every protocol object. An
// actor's name is immutable and doubles as its registry key and its
// wire-level identity ("to"/"from"/"actor" fields).
//
// HandleMessage runs the operation selected by msgType. The handler
// either issues exactly one final reply through req (possibly after
// preliminary pushes) and returns nil, or returns a handler error that
// the dispatcher converts into a wire error reply. Handlers may be
// invoked concurrently from different connections; an actor protects
// its own mutable state.
//
// CleanupStream is called when a connection goes away. Actors that
// track interested streams shed that stream's state; the call must be
// idempotent.
type Actor interface {
	Name() string
	HandleMessage(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error
	CleanupStream(streamID protocol.StreamID)
}

// Base supplies the default actor behavior: a stored immutable name, no
// supported operations, and no per-stream state. Concrete actors embed
// it and override what they need.
type Base struct {
	name string
}

// NewBase wraps a registry-issued name.
func NewBase(name string) Base {
	return Base{name: name}
}

func (b Base) Name() string {
	return b.name
}

// HandleMessage rejects every operation. Actors that are pure wire
// references (pause actors, frame actors) keep this default.
func (Base) HandleMessage(*protocol.Request, *Registry, string, map[string]any, protocol.StreamID) error {
	return protocol.ErrUnrecognizedPacketType
}

func (Base) CleanupStream(protocol.StreamID) {}

// GetString extracts a required string field from a message body.
// Returns ErrMissingParameter if absent, ErrBadParameterType if present
// with another JSON type.
func GetString(msg map[string]any, key string) (string, error) {
	v, ok := msg[key]
	if !ok {
		return "", protocol.ErrMissingParameter
	}
	s, ok := v.(string)
	if !ok {
		return "", protocol.ErrBadParameterType
	}
	return s, nil
}

// GetFloat extracts a required numeric field from a message body.
// JSON numbers decode as float64; callers convert as needed.
func GetFloat(msg map[string]any, key string) (float64, error) {
	v, ok := msg[key]
	if !ok {
		return 0, protocol.ErrMissingParameter
	}
	f, ok := v.(float64)
	if !ok {
		return 0, protocol.ErrBadParameterType
	}
	return f, nil
}

// GetSlice extracts a required array field from a message body.
func GetSlice(msg map[string]any, key string) ([]any, error) {
	v, ok := msg[key]
	if !ok {
		return nil, protocol.ErrMissingParameter
	}
	s, ok := v.([]any)
	if !ok {
		return nil, protocol.ErrBadParameterType
	}
	return s, nil
}
