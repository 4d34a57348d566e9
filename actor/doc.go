// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package actor implements the registry of addressable protocol objects
// at the heart of the devtools server. Every debugging feature is an
// actor: an object reachable by a stable string name, exposing named
// operations to debugger clients and optionally pushing unsolicited
// notifications.
//
// The package splits into:
//
//   - actor.go: the Actor capability interface and actor kinds
//   - store.go: the sharded concurrent name-to-actor store
//   - registry.go: the façade adding name allocation, deferred
//     registration, typed lookup, and the auxiliary indices
//   - dispatch.go: the inbound message dispatcher and its
//     error-to-wire conversion
//
// Multiple connection goroutines and the engine's event goroutines all
// operate on the registry concurrently; the store's shards bound
// contention, and no operation spans more than one shard lock.
package actor
