// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package actors implements the concrete protocol actors: the root
// actor greeting new connections, the tab descriptors and their
// browsing-context targets, the watcher fanning out resource
// notifications, the thread/source actors backing the debugger panel,
// the inspector's walker and node actors, and the network event
// actors backing the network panel.
//
// Every actor follows the same contract from the actor package: an
// immutable registry-issued name, named operations selected by the
// inbound message's "type" field, and per-stream cleanup. Actors that
// wrap page-side objects (nodes) deduplicate through the registry's
// script-actor binding so each page object has at most one wrapper.
package actors
