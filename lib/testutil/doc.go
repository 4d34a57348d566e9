// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Tern packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. A hung
// channel then fails the test with a message instead of stalling the
// whole run.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need unique
// request IDs or payloads distinguishable in shared fixtures.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Tern-internal dependencies.
package testutil
