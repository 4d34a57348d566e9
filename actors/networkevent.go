// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// NetworkEvent is the per-request actor behind one row of the network
// panel. The engine feeds it request and response phases; the client
// pulls headers, cookies, bodies and timings on demand.
type NetworkEvent struct {
	actor.Base
	resourceID uint64

	mu       sync.Mutex
	request  script.HTTPRequest
	response *script.HTTPResponse
}

// NewNetworkEvent registers the actor for a request that just
// started.
func NewNetworkEvent(r *actor.Registry, resourceID uint64, request script.HTTPRequest) *NetworkEvent {
	e := &NetworkEvent{
		Base:       actor.NewBase(r.NewName(KindNetworkEvent)),
		resourceID: resourceID,
		request:    request,
	}
	r.Register(e)
	return e
}

// AddRequest replaces the request data after a redirect or an
// engine-side update.
func (a *NetworkEvent) AddRequest(request script.HTTPRequest) {
	a.mu.Lock()
	a.request = request
	a.mu.Unlock()
}

// AddResponse records the response phase.
func (a *NetworkEvent) AddResponse(response script.HTTPResponse) {
	a.mu.Lock()
	a.response = &response
	a.mu.Unlock()
}

// NetworkEventMsg is the Available form announcing the request.
type NetworkEventMsg struct {
	Actor           string          `json:"actor"`
	ResourceID      uint64          `json:"resourceId"`
	URL             string          `json:"url"`
	Method          string          `json:"method"`
	StartedDateTime string          `json:"startedDateTime"`
	TimeStamp       int64           `json:"timeStamp"`
	IsXHR           bool            `json:"isXHR"`
	Private         bool            `json:"private"`
	Cause           NetworkCauseMsg `json:"cause"`
}

type NetworkCauseMsg struct {
	Type string `json:"type"`
}

// Encode builds the Available form.
func (a *NetworkEvent) Encode() NetworkEventMsg {
	a.mu.Lock()
	defer a.mu.Unlock()
	started := a.request.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	return NetworkEventMsg{
		Actor:           a.Name(),
		ResourceID:      a.resourceID,
		URL:             a.request.URL,
		Method:          a.request.Method,
		StartedDateTime: started.UTC().Format(time.RFC3339Nano),
		TimeStamp:       a.request.TimeStamp,
		IsXHR:           a.request.IsXHR,
		Cause:           NetworkCauseMsg{Type: a.request.Destination},
	}
}

// NetworkEventUpdateMsg is the Updated form patching an announced
// request with availability flags.
type NetworkEventUpdateMsg struct {
	ResourceID      uint64         `json:"resourceId"`
	ResourceUpdates map[string]any `json:"resourceUpdates"`
}

// ResourceUpdates reports which parts of the event can be fetched.
func (a *NetworkEvent) ResourceUpdates() NetworkEventUpdateMsg {
	a.mu.Lock()
	defer a.mu.Unlock()
	updates := map[string]any{
		"requestHeadersAvailable":  true,
		"requestCookiesAvailable":  true,
		"requestPostDataAvailable": len(a.request.Body) > 0,
	}
	if a.response != nil {
		status, statusText := a.response.Status, a.response.StatusText
		updates["responseStartAvailable"] = true
		updates["responseHeadersAvailable"] = true
		updates["responseCookiesAvailable"] = true
		updates["responseContentAvailable"] = true
		updates["eventTimingsAvailable"] = true
		updates["securityInfoAvailable"] = true
		updates["status"] = status
		updates["statusText"] = statusText
	}
	return NetworkEventUpdateMsg{ResourceID: a.resourceID, ResourceUpdates: updates}
}

type headerMsg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type headersReply struct {
	From       string      `json:"from"`
	Headers    []headerMsg `json:"headers"`
	HeaderSize int         `json:"headersSize"`
	RawHeaders any         `json:"rawHeaders"`
}

func encodeHeaders(r *actor.Registry, from string, h http.Header) headersReply {
	reply := headersReply{From: from, Headers: []headerMsg{}}
	var raw strings.Builder
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range h[name] {
			reply.Headers = append(reply.Headers, headerMsg{Name: name, Value: value})
			fmt.Fprintf(&raw, "%s: %s\r\n", name, value)
		}
	}
	reply.HeaderSize = raw.Len()
	reply.RawHeaders = stringOrLongString(r, raw.String())
	return reply
}

type cookieMsg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type cookiesReply struct {
	From    string      `json:"from"`
	Cookies []cookieMsg `json:"cookies"`
}

type postDataReply struct {
	From              string      `json:"from"`
	PostData          postDataMsg `json:"postData"`
	PostDataDiscarded bool        `json:"postDataDiscarded"`
}

type postDataMsg struct {
	Text any `json:"text"`
	Size int `json:"size"`
}

type responseContentReply struct {
	From             string     `json:"from"`
	Content          contentMsg `json:"content"`
	ContentDiscarded bool       `json:"contentDiscarded"`
}

type contentMsg struct {
	Text     any    `json:"text"`
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Encoding string `json:"encoding,omitempty"`
}

type eventTimingsReply struct {
	From      string           `json:"from"`
	Timings   map[string]int64 `json:"timings"`
	TotalTime int64            `json:"totalTime"`
}

type securityInfoReply struct {
	From         string          `json:"from"`
	SecurityInfo securityInfoMsg `json:"securityInfo"`
}

type securityInfoMsg struct {
	State string `json:"state"`
}

func isTextMime(mime string) bool {
	switch {
	case strings.HasPrefix(mime, "text/"),
		strings.Contains(mime, "javascript"),
		strings.Contains(mime, "json"),
		strings.Contains(mime, "xml"):
		return true
	}
	return false
}

func (a *NetworkEvent) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	a.mu.Lock()
	request := a.request
	response := a.response
	a.mu.Unlock()

	switch msgType {
	case "getRequestHeaders":
		return req.Reply(encodeHeaders(r, a.Name(), request.Headers))

	case "getRequestCookies":
		httpReq := http.Request{Header: request.Headers}
		reply := cookiesReply{From: a.Name(), Cookies: []cookieMsg{}}
		for _, c := range httpReq.Cookies() {
			reply.Cookies = append(reply.Cookies, cookieMsg{Name: c.Name, Value: c.Value})
		}
		return req.Reply(reply)

	case "getRequestPostData":
		return req.Reply(postDataReply{
			From: a.Name(),
			PostData: postDataMsg{
				Text: stringOrLongString(r, string(request.Body)),
				Size: len(request.Body),
			},
		})

	case "getResponseHeaders":
		if response == nil {
			return protocol.Internalf("no response recorded for %s", a.Name())
		}
		return req.Reply(encodeHeaders(r, a.Name(), response.Headers))

	case "getResponseCookies":
		if response == nil {
			return protocol.Internalf("no response recorded for %s", a.Name())
		}
		httpResp := http.Response{Header: response.Headers}
		reply := cookiesReply{From: a.Name(), Cookies: []cookieMsg{}}
		for _, c := range httpResp.Cookies() {
			reply.Cookies = append(reply.Cookies, cookieMsg{Name: c.Name, Value: c.Value})
		}
		return req.Reply(reply)

	case "getResponseContent":
		if response == nil {
			return protocol.Internalf("no response recorded for %s", a.Name())
		}
		mime := response.Headers.Get("Content-Type")
		content := contentMsg{Size: len(response.Body), MimeType: mime}
		if isTextMime(mime) {
			content.Text = stringOrLongString(r, string(response.Body))
		} else {
			content.Text = base64.StdEncoding.EncodeToString(response.Body)
			content.Encoding = "base64"
		}
		return req.Reply(responseContentReply{From: a.Name(), Content: content})

	case "getEventTimings":
		// Engine-side timing capture is not plumbed through yet, so
		// every phase reads as instantaneous.
		return req.Reply(eventTimingsReply{
			From: a.Name(),
			Timings: map[string]int64{
				"blocked": 0, "dns": 0, "connect": 0,
				"send": 0, "wait": 0, "receive": 0,
			},
		})

	case "getSecurityInfo":
		state := "insecure"
		if strings.HasPrefix(request.URL, "https:") {
			state = "secure"
		}
		return req.Reply(securityInfoReply{From: a.Name(), SecurityInfo: securityInfoMsg{State: state}})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
