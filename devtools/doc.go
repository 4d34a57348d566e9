// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package devtools runs the remote debugging server: it accepts
// client connections over TCP and WebSocket, feeds their packets to
// the actor registry, and translates engine events into the actor
// and resource updates clients observe.
//
// The server owns one registry shared by all connections. Engine
// events arrive on a single channel and are applied sequentially;
// client requests dispatch concurrently, one goroutine per
// connection.
package devtools
