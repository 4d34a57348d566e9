// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol implements the wire layer of the DevTools remote
// debugging protocol: one JSON object per logical packet, framed with a
// decimal byte-length prefix ("31:{...}") over a persistent byte stream.
//
// The package is organized around the connection data flow:
//
//   - packet.go: length-prefixed JSON packet framing (read/write pairs)
//   - stream.go: one attached client connection with serialized writes
//   - request.go: the reply handle bound to a single inbound message
//   - errors.go: the client-visible handler error taxonomy
//
// The frontend on the other end of the stream is an unmodifiable
// external client (the Firefox DevTools frontend), so the framing and
// the set of error names are wire-compatibility constraints, not design
// choices.
package protocol
