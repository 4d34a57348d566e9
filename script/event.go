// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"net/http"
	"time"

	"github.com/tern-browser/tern/id"
)

// Event is a notification from the engine to the devtools server.
// Events stay in-process: the server is embedded in the browser, and
// only the command channel may cross a process boundary.
type Event interface {
	event()
}

// NewGlobal announces a new top-level page (a fresh web view, or a
// fresh pipeline in an existing one). Control is the command channel
// reaching that page's script side.
type NewGlobal struct {
	WebView  id.WebViewID
	Context  id.BrowsingContextID
	Pipeline id.PipelineID
	Page     PageInfo
	Control  Control
}

func (NewGlobal) event() {}

// NavigationStart reports that a browsing context began navigating.
type NavigationStart struct {
	Context id.BrowsingContextID
	URL     string
}

func (NavigationStart) event() {}

// NavigationStop reports that a navigation committed: the context now
// hosts the given pipeline with the given page.
type NavigationStop struct {
	Context  id.BrowsingContextID
	Pipeline id.PipelineID
	Page     PageInfo
}

func (NavigationStop) event() {}

// TitleChanged reports a document title change.
type TitleChanged struct {
	Pipeline id.PipelineID
	Title    string
}

func (TitleChanged) event() {}

// SourceLoaded reports a script source observed by the page: an
// external file, or the document's inline scripts gathered into one
// synthetic source.
type SourceLoaded struct {
	Pipeline id.PipelineID
	URL      string
	Content  string
	IsInline bool
}

func (SourceLoaded) event() {}

// AnimationFrameTick answers a RequestAnimationFrame command. Actor is
// the framerate actor that asked; Time is the frame timestamp in
// milliseconds since navigation start.
type AnimationFrameTick struct {
	Actor string
	Time  float64
}

func (AnimationFrameTick) event() {}

// NetworkPhase distinguishes the stages of one network exchange.
type NetworkPhase int

const (
	// PhaseRequest carries the initial request: headers, method, URL.
	PhaseRequest NetworkPhase = iota
	// PhaseRequestUpdate carries late request data (the body).
	PhaseRequestUpdate
	// PhaseResponse carries the response.
	PhaseResponse
)

// NetworkActivity reports one stage of a network exchange. RequestID is
// the engine's stable identity for the exchange; every phase of one
// exchange carries the same id, which is what lets Updated resource
// notifications reference the Available snapshot that preceded them.
type NetworkActivity struct {
	RequestID string
	Context   id.BrowsingContextID
	Phase     NetworkPhase
	Request   *HTTPRequest
	Response  *HTTPResponse
}

func (NetworkActivity) event() {}

// HTTPRequest is the request side of a network exchange.
type HTTPRequest struct {
	URL         string
	Method      string
	Headers     http.Header
	Body        []byte
	StartedAt   time.Time
	TimeStamp   int64
	Destination string
	IsXHR       bool
}

// HTTPResponse is the response side of a network exchange.
type HTTPResponse struct {
	Status     int
	StatusText string
	Headers    http.Header
	Body       []byte
}
