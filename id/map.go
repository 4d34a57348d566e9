// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package id

import "sync"

// Map allocates wire ids for engine identities. Each engine identity is
// assigned a wire id on first use and keeps it for the lifetime of the
// map. Safe for concurrent use: the engine's event threads and the
// connection threads both resolve ids.
type Map struct {
	mu sync.Mutex

	browsers     map[WebViewID]BrowserID
	contexts     map[BrowsingContextID]ContextID
	outerWindows map[PipelineID]OuterWindowID

	nextBrowser     BrowserID
	nextContext     ContextID
	nextOuterWindow OuterWindowID
}

// NewMap returns an empty id map. Wire ids start at 1; zero is never
// issued so it can serve as a missing-value sentinel in messages.
func NewMap() *Map {
	return &Map{
		browsers:     make(map[WebViewID]BrowserID),
		contexts:     make(map[BrowsingContextID]ContextID),
		outerWindows: make(map[PipelineID]OuterWindowID),
	}
}

// Browser returns the wire id for a web view, allocating on first use.
func (m *Map) Browser(id WebViewID) BrowserID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.browsers[id]; ok {
		return v
	}
	m.nextBrowser++
	m.browsers[id] = m.nextBrowser
	return m.nextBrowser
}

// Context returns the wire id for a browsing context, allocating on
// first use.
func (m *Map) Context(id BrowsingContextID) ContextID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.contexts[id]; ok {
		return v
	}
	m.nextContext++
	m.contexts[id] = m.nextContext
	return m.nextContext
}

// OuterWindow returns the wire id for the window hosted by a pipeline,
// allocating on first use.
func (m *Map) OuterWindow(id PipelineID) OuterWindowID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.outerWindows[id]; ok {
		return v
	}
	m.nextOuterWindow++
	m.outerWindows[id] = m.nextOuterWindow
	return m.nextOuterWindow
}
