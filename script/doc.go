// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package script is the boundary between the devtools server and the
// engine's script side. Traffic flows both ways:
//
//   - Commands (command.go) travel from actor handlers to the page:
//     typed values like "get the children of node X" or "modify this
//     attribute". Commands that need an answer get exactly one reply;
//     a collaborator that goes away without answering is an internal
//     fault surfaced to the requesting client.
//
//   - Events (event.go) travel from the engine to the server: new
//     globals, navigation state changes, network activity. They drive
//     actor registration and resource broadcasts.
//
// Two command transports exist. The channel transport (channel.go)
// serves an engine linked into the same binary. The IPC transport
// (ipc.go) frames commands as CBOR envelopes over a connection for an
// engine running in a separate process, the usual arrangement when the
// script side is sandboxed.
package script
