// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// captureConn records written packets; reads report EOF.
type captureConn struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *captureConn) Read(p []byte) (int, error) { return 0, io.EOF }
func (c *captureConn) Close() error               { return nil }
func (c *captureConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *captureConn) packets(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	data := append([]byte(nil), c.buf.Bytes()...)
	c.mu.Unlock()
	reader := bufio.NewReader(bytes.NewReader(data))
	var out []map[string]any
	for {
		msg, err := protocol.ReadPacket(reader)
		if err != nil {
			return out
		}
		out = append(out, msg)
	}
}

func (c *captureConn) reset() {
	c.mu.Lock()
	c.buf.Reset()
	c.mu.Unlock()
}

// testEngine answers page commands for a fixed four-node document:
// HTML > BODY > H1 > #text.
type testEngine struct {
	mu    sync.Mutex
	nodes map[string]*testNode
	sent  chan script.Command
}

type testNode struct {
	info     script.NodeInfo
	children []string
}

func newTestEngine() *testEngine {
	e := &testEngine{
		nodes: make(map[string]*testNode),
		sent:  make(chan script.Command, 32),
	}
	e.add(script.NodeInfo{UniqueID: "n-html", NodeType: 1, NodeName: "HTML", BaseURI: "https://example.test/", IsDisplayed: true, Display: "block"})
	e.add(script.NodeInfo{UniqueID: "n-body", Parent: "n-html", NodeType: 1, NodeName: "BODY", BaseURI: "https://example.test/", IsDisplayed: true, Display: "block",
		Attrs: []script.Attr{{Name: "class", Value: "page"}}})
	e.add(script.NodeInfo{UniqueID: "n-h1", Parent: "n-body", NodeType: 1, NodeName: "H1", BaseURI: "https://example.test/", IsDisplayed: true, Display: "block"})
	e.add(script.NodeInfo{UniqueID: "n-text", Parent: "n-h1", NodeType: 3, NodeName: "#text", NodeValue: "Hello", IsDisplayed: true})
	return e
}

func (e *testEngine) add(info script.NodeInfo) {
	n := &testNode{info: info}
	e.nodes[info.UniqueID] = n
	if info.Parent != "" {
		parent := e.nodes[info.Parent]
		parent.children = append(parent.children, info.UniqueID)
		parent.info.NumChildren = len(parent.children)
	}
}

func (e *testEngine) HandleCommand(cmd script.Command) (any, error) {
	switch cmd := cmd.(type) {
	case script.GetDocumentElement:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.nodes["n-html"].info, nil
	case script.GetChildren:
		e.mu.Lock()
		defer e.mu.Unlock()
		node, ok := e.nodes[cmd.Node]
		if !ok {
			return nil, fmt.Errorf("unknown node %q", cmd.Node)
		}
		children := make([]script.NodeInfo, 0, len(node.children))
		for _, childID := range node.children {
			children = append(children, e.nodes[childID].info)
		}
		return children, nil
	case script.GetXPath:
		return "/HTML[1]/BODY[1]", nil
	case script.GetCSSDatabase:
		return map[string]script.CSSProperty{"color": {IsInherited: true}}, nil
	case script.ModifyAttribute:
		e.mu.Lock()
		node, ok := e.nodes[cmd.Node]
		if ok {
			for _, mod := range cmd.Modifications {
				applyAttr(node, mod)
			}
		}
		e.mu.Unlock()
		e.sent <- cmd
		return nil, nil
	default:
		e.sent <- cmd
		return nil, nil
	}
}

func applyAttr(n *testNode, mod script.AttrModification) {
	for i, attr := range n.info.Attrs {
		if attr.Name != mod.AttributeName {
			continue
		}
		if mod.NewValue == nil {
			n.info.Attrs = append(n.info.Attrs[:i], n.info.Attrs[i+1:]...)
		} else {
			n.info.Attrs[i].Value = *mod.NewValue
		}
		return
	}
	if mod.NewValue != nil {
		n.info.Attrs = append(n.info.Attrs, script.Attr{Name: mod.AttributeName, Value: *mod.NewValue})
	}
}

// fixture is a registry with one fully-built target family backed by
// the test engine.
type fixture struct {
	registry *actor.Registry
	engine   *testEngine
	control  *script.ChannelControl
	target   *Target
	root     *Root
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := actor.NewRegistry(logger)
	root := NewRoot(registry)

	engine := newTestEngine()
	control := script.NewChannelControl(8)
	go control.Serve(engine)
	t.Cleanup(control.Close)

	target := NewTarget(registry, control, logger, 1, 1, 1, 1,
		script.PageInfo{Title: "Hello", URL: "https://example.test/", IsTopLevelGlobal: true})
	return &fixture{
		registry: registry,
		engine:   engine,
		control:  control,
		target:   target,
		root:     root,
	}
}

// dispatch routes one client message through the registry and returns
// the packets it produced on the stream.
func (f *fixture) dispatch(t *testing.T, stream *protocol.Stream, conn *captureConn, to, msgType string, extra map[string]any) []map[string]any {
	t.Helper()
	conn.reset()
	msg := map[string]any{"to": to, "type": msgType}
	for k, v := range extra {
		msg[k] = v
	}
	f.registry.HandleMessage(msg, stream)
	return conn.packets(t)
}

func newClient(id protocol.StreamID) (*protocol.Stream, *captureConn) {
	conn := &captureConn{}
	return protocol.NewStream(id, conn), conn
}

// reply returns the last packet, which dispatch guarantees is the
// final reply when the handler succeeded.
func reply(t *testing.T, packets []map[string]any) map[string]any {
	t.Helper()
	if len(packets) == 0 {
		t.Fatal("no packets written")
	}
	return packets[len(packets)-1]
}
