// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package id defines the identifier types shared between the browser
// engine and the devtools server, and the mapping from engine-side
// identities to the small integers exposed on the wire.
//
// The engine assigns 64-bit identifiers to web views, browsing contexts,
// and pipelines (one pipeline per document load). The DevTools protocol
// expects compact numeric ids that are stable for the lifetime of a
// debugging session, so the server translates through a [Map] rather
// than exposing engine identifiers directly.
package id

// PipelineID identifies one document load inside a browsing context.
// Assigned by the engine; a navigation produces a new pipeline.
type PipelineID uint64

// WebViewID identifies a web view (a tab, from the client's point of
// view). Assigned by the engine.
type WebViewID uint64

// BrowsingContextID identifies a browsing context (frame tree node).
// Assigned by the engine.
type BrowsingContextID uint64

// BrowserID is the wire-visible id of a web view ("browserId").
type BrowserID uint32

// ContextID is the wire-visible id of a browsing context
// ("browsingContextID").
type ContextID uint32

// OuterWindowID is the wire-visible id of the window currently hosted
// by a browsing context ("outerWindowID"). Tracks the active pipeline.
type OuterWindowID uint32
