// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
)

// Registry owns every live actor and the auxiliary indices the actor
// implementations need: script-object bindings, per-pipeline source
// actor lists, and the inline source content cache. One registry serves
// all attached connections for the lifetime of the server.
type Registry struct {
	store  *Store
	next   atomic.Uint64
	logger *slog.Logger

	// deferredMu guards the two-phase registration sets. Deferred
	// actors and removals staged during a dispatch pass are committed
	// by the dispatcher once the pass completes, so no lookup mid-pass
	// observes a half-constructed or half-torn-down actor.
	deferredMu sync.Mutex
	newActors  map[string]Actor
	oldActors  []string

	// scriptMu guards the bidirectional script-object binding and the
	// per-pipeline indices.
	scriptMu         sync.Mutex
	scriptToActor    map[string]string
	actorToScript    map[string]string
	sourceActorNames map[id.PipelineID][]string
	inlineSources    map[id.PipelineID][]byte // zstd-compressed page text

	startTime time.Time
}

// Inline source payloads are page-sized and live for the whole session,
// so the cache stores them compressed. The shared coders are stateless
// in EncodeAll/DecodeAll mode and safe for concurrent use.
var (
	sourceEncoder, _ = zstd.NewWriter(nil)
	sourceDecoder, _ = zstd.NewReader(nil)
)

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:            NewStore(),
		logger:           logger,
		newActors:        make(map[string]Actor),
		scriptToActor:    make(map[string]string),
		actorToScript:    make(map[string]string),
		sourceActorNames: make(map[id.PipelineID][]string),
		inlineSources:    make(map[id.PipelineID][]byte),
		startTime:        time.Now(),
	}
}

// StartTime is the instant the registry was created. Timing fields in
// protocol replies are measured relative to it.
func (r *Registry) StartTime() time.Time {
	return r.startTime
}

// NewName allocates a unique actor name for the kind: the kind's prefix
// plus a monotonically increasing suffix. A singleton kind always names
// its one instance with the bare prefix.
func (r *Registry) NewName(k Kind) string {
	if k.Singleton {
		return k.Prefix
	}
	return k.Prefix + strconv.FormatUint(r.next.Add(1)-1, 10)
}

// Register makes the actor immediately visible to lookups. The actor's
// name must come from NewName; registering a second actor under a live
// name is a wiring defect.
func (r *Registry) Register(a Actor) {
	if _, ok := r.store.Get(a.Name()); ok {
		panic(fmt.Sprintf("actor: name %q already registered", a.Name()))
	}
	r.store.Insert(a)
}

// RegisterLater allocates a name, constructs the actor with it, and
// stages it for registration. The actor becomes visible only after the
// current dispatch pass completes, but the returned name can be
// embedded in the current pass's own reply. That is how a handler
// hands a fresh sub-actor's name to its caller before the sub-actor is
// installed.
func (r *Registry) RegisterLater(k Kind, construct func(name string) Actor) string {
	name := r.NewName(k)
	a := construct(name)
	if a.Name() != name {
		panic(fmt.Sprintf("actor: deferred constructor for %q produced name %q", name, a.Name()))
	}
	r.deferredMu.Lock()
	r.newActors[name] = a
	r.deferredMu.Unlock()
	return name
}

// DropActor removes the named actor immediately.
func (r *Registry) DropActor(name string) {
	r.store.Remove(name)
}

// DropActorLater stages the named actor for removal once the current
// dispatch pass completes; lookups during the pass still succeed.
func (r *Registry) DropActorLater(name string) {
	r.deferredMu.Lock()
	r.oldActors = append(r.oldActors, name)
	r.deferredMu.Unlock()
}

// flushDeferred commits staged registrations and removals. Called by
// the dispatcher after every pass, whatever the pass outcome.
func (r *Registry) flushDeferred() {
	r.deferredMu.Lock()
	newActors := r.newActors
	oldActors := r.oldActors
	r.newActors = make(map[string]Actor)
	r.oldActors = nil
	r.deferredMu.Unlock()

	for _, a := range newActors {
		r.store.Insert(a)
	}
	for _, name := range oldActors {
		r.store.Remove(name)
	}
}

// Get returns the actor registered under name, untyped. A miss is a
// routing condition for the dispatcher, not a fault.
func (r *Registry) Get(name string) (Actor, bool) {
	return r.store.Get(name)
}

// CleanupStream tells every live actor that a connection has gone away.
// Idempotent, and safe to call from any goroutine, including while
// dispatches for other connections are in flight.
func (r *Registry) CleanupStream(streamID protocol.StreamID) {
	r.store.ForEach(func(a Actor) {
		a.CleanupStream(streamID)
	})
}

// Find resolves name to the caller's expected concrete type. Callers
// look up actors by names they themselves created and therefore know
// the type; a miss or a type mismatch is a server wiring defect, not a
// protocol error, so Find panics and the dispatcher confines the panic
// to the offending dispatch.
func Find[T Actor](r *Registry, name string) T {
	a, ok := r.store.Get(name)
	if !ok {
		panic(fmt.Sprintf("actor: no actor named %q", name))
	}
	t, ok := a.(T)
	if !ok {
		panic(fmt.Sprintf("actor: %q is a %T, not the requested type", name, a))
	}
	return t
}

// Encode resolves name with Find and returns the actor's wire form.
func Encode[T interface {
	Actor
	Encode(*Registry) M
}, M any](r *Registry, name string) M {
	return Find[T](r, name).Encode(r)
}

// RegisterScriptActor binds a page-side object identity to the actor
// wrapping it. The binding is bidirectional: message handling
// translates actor names to script identities and back.
func (r *Registry) RegisterScriptActor(scriptID, actorName string) {
	r.logger.Debug("registering script actor", "actor", actorName, "script", scriptID)
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	r.scriptToActor[scriptID] = actorName
	r.actorToScript[actorName] = scriptID
}

// ScriptActorRegistered reports whether a wrapper actor exists for the
// page-side identity.
func (r *Registry) ScriptActorRegistered(scriptID string) bool {
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	_, ok := r.scriptToActor[scriptID]
	return ok
}

// GetOrRegisterScriptActor returns the actor bound to the page-side
// identity, constructing, binding, and deferred-registering a new
// wrapper if none exists. The check and the bind happen under one lock,
// closing the check-then-act race between connection goroutines
// wrapping the same object.
func (r *Registry) GetOrRegisterScriptActor(scriptID string, k Kind, construct func(name string) Actor) string {
	r.scriptMu.Lock()
	if name, ok := r.scriptToActor[scriptID]; ok {
		r.scriptMu.Unlock()
		return name
	}
	name := r.NewName(k)
	r.scriptToActor[scriptID] = name
	r.actorToScript[name] = scriptID
	r.scriptMu.Unlock()

	a := construct(name)
	r.deferredMu.Lock()
	r.newActors[name] = a
	r.deferredMu.Unlock()
	return name
}

// ScriptToActor returns the actor name bound to a page-side identity.
// The empty identity maps to the empty name (a document with no
// parent). A missing binding is a wiring defect since callers only pass
// identities the page reported.
func (r *Registry) ScriptToActor(scriptID string) string {
	if scriptID == "" {
		return ""
	}
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	name, ok := r.scriptToActor[scriptID]
	if !ok {
		panic(fmt.Sprintf("actor: no actor bound to script object %q", scriptID))
	}
	return name
}

// ActorToScript returns the page-side identity an actor wraps. Only
// ever called with names the registry itself produced, so an unknown
// actor is a wiring defect.
func (r *Registry) ActorToScript(actorName string) string {
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	scriptID, ok := r.actorToScript[actorName]
	if !ok {
		panic(fmt.Sprintf("actor: %q wraps no script object", actorName))
	}
	return scriptID
}

// RegisterSourceActor records a source actor name for a pipeline. The
// thread actor's "sources" listing replays these per pipeline.
func (r *Registry) RegisterSourceActor(pipeline id.PipelineID, actorName string) {
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	r.sourceActorNames[pipeline] = append(r.sourceActorNames[pipeline], actorName)
}

// SourceActorNames returns the source actors recorded for a pipeline.
func (r *Registry) SourceActorNames(pipeline id.PipelineID) []string {
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	names := r.sourceActorNames[pipeline]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// SetInlineSourceContent caches the inline script text of a pipeline's
// document. Write-once per pipeline: the document's markup does not
// change under a pipeline, so a second set is a wiring defect.
func (r *Registry) SetInlineSourceContent(pipeline id.PipelineID, content string) {
	compressed := sourceEncoder.EncodeAll([]byte(content), nil)
	r.scriptMu.Lock()
	defer r.scriptMu.Unlock()
	if _, ok := r.inlineSources[pipeline]; ok {
		panic(fmt.Sprintf("actor: inline source content for pipeline %d set twice", pipeline))
	}
	r.inlineSources[pipeline] = compressed
}

// InlineSourceContent returns the cached inline source text for a
// pipeline, if any.
func (r *Registry) InlineSourceContent(pipeline id.PipelineID) (string, bool) {
	r.scriptMu.Lock()
	compressed, ok := r.inlineSources[pipeline]
	r.scriptMu.Unlock()
	if !ok {
		return "", false
	}
	content, err := sourceDecoder.DecodeAll(compressed, nil)
	if err != nil {
		panic(fmt.Sprintf("actor: corrupt inline source cache for pipeline %d: %v", pipeline, err))
	}
	return string(content), true
}
