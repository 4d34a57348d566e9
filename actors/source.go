// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"log/slog"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/resource"
)

// SourceForm describes one debuggable source in sources replies and
// source resource arrays.
type SourceForm struct {
	Actor        string `json:"actor"`
	URL          string `json:"url"`
	IsBlackBoxed bool   `json:"isBlackBoxed"`
}

// SourceManager deduplicates the sources reported for one thread. The
// engine can report the same script many times (re-execution, shared
// inline scripts); content identity is a blake3 digest over URL and
// body.
type SourceManager struct {
	mu    sync.Mutex
	seen  map[[32]byte]struct{}
	forms []SourceForm
}

func NewSourceManager() *SourceManager {
	return &SourceManager{seen: make(map[[32]byte]struct{})}
}

// Add registers a source actor for the script unless an identical one
// is already known. It returns the new form and true on first sight.
func (m *SourceManager) Add(r *actor.Registry, pipeline id.PipelineID, url, content string, isInline bool) (SourceForm, bool) {
	h := blake3.New()
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write([]byte(content))
	var digest [32]byte
	h.Sum(digest[:0])

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.seen[digest]; dup {
		return SourceForm{}, false
	}
	m.seen[digest] = struct{}{}

	src := &Source{
		Base:     actor.NewBase(r.NewName(KindSource)),
		pipeline: pipeline,
		url:      url,
		isInline: isInline,
	}
	if !isInline {
		src.content = content
	}
	r.Register(src)
	r.RegisterSourceActor(pipeline, src.Name())

	form := SourceForm{Actor: src.Name(), URL: url}
	m.forms = append(m.forms, form)
	return form, true
}

// Forms snapshots the known source forms.
func (m *SourceManager) Forms() []SourceForm {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SourceForm(nil), m.forms...)
}

// Source serves the text of one script. Inline scripts share the
// pipeline's page markup held by the registry instead of carrying
// their own copy.
type Source struct {
	actor.Base
	pipeline id.PipelineID
	url      string
	content  string
	isInline bool
}

type sourceReply struct {
	From        string `json:"from"`
	Source      any    `json:"source"`
	ContentType string `json:"contentType"`
}

func (a *Source) text(r *actor.Registry) (string, error) {
	if !a.isInline {
		return a.content, nil
	}
	content, ok := r.InlineSourceContent(a.pipeline)
	if !ok {
		return "", protocol.Internalf("no page content recorded for pipeline %d", a.pipeline)
	}
	return content, nil
}

func (a *Source) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "source":
		text, err := a.text(r)
		if err != nil {
			return err
		}
		return req.Reply(sourceReply{
			From:        a.Name(),
			Source:      stringOrLongString(r, text),
			ContentType: "text/javascript",
		})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// NotifySource broadcasts a source resource to the given streams.
func NotifySource(streams []*protocol.Stream, thread string, form SourceForm, logger *slog.Logger) {
	resource.Broadcast(streams, thread, resource.TypeSource, resource.Available, []any{form}, logger)
}
