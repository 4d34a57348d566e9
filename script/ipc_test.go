// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/tern-browser/tern/lib/testutil"
)

// startIPCFixture wires an IPCControl to a fixture engine over an
// in-memory pipe and tears both down with the test.
func startIPCFixture(t *testing.T) (*IPCControl, *fixtureHandler) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})

	h := newFixtureHandler()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- ServeIPC(server, h)
	}()
	t.Cleanup(func() {
		client.Close()
		<-serveDone
	})
	return NewIPCControl(client), h
}

func TestIPCRoundTrip(t *testing.T) {
	t.Parallel()

	ctrl, _ := startIPCFixture(t)

	doc, err := RoundTrip[NodeInfo](ctrl, GetDocumentElement{Pipeline: 1})
	if err != nil {
		t.Fatalf("GetDocumentElement: %v", err)
	}
	if doc.UniqueID != "root" || doc.NumChildren != 1 {
		t.Fatalf("document element = %+v", doc)
	}

	children, err := RoundTrip[[]NodeInfo](ctrl, GetChildren{Pipeline: 1, Node: "root"})
	if err != nil {
		t.Fatalf("GetChildren: %v", err)
	}
	if len(children) != 1 || children[0].UniqueID != "body" || children[0].Parent != "root" {
		t.Fatalf("children = %+v", children)
	}

	db, err := RoundTrip[map[string]CSSProperty](ctrl, GetCSSDatabase{})
	if err != nil {
		t.Fatalf("GetCSSDatabase: %v", err)
	}
	if !db["color"].IsInherited {
		t.Fatalf("css database = %+v", db)
	}
}

func TestIPCHandlerErrorStaysUp(t *testing.T) {
	t.Parallel()

	ctrl, _ := startIPCFixture(t)

	if _, err := RoundTrip[[]NodeInfo](ctrl, GetChildren{Pipeline: 1, Node: "missing"}); err == nil {
		t.Fatal("handler failure did not surface")
	}
	// The transport survives handler failures.
	if _, err := RoundTrip[NodeInfo](ctrl, GetDocumentElement{Pipeline: 1}); err != nil {
		t.Fatalf("transport down after a handler failure: %v", err)
	}
}

func TestIPCSend(t *testing.T) {
	t.Parallel()

	ctrl, h := startIPCFixture(t)

	scheme := "dark"
	if err := ctrl.Send(SimulateColorScheme{Pipeline: 2, Scheme: scheme}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	cmd := testutil.RequireReceive(t, h.sent, 5*time.Second, "waiting for the color scheme command")
	got, ok := cmd.(SimulateColorScheme)
	if !ok || got.Pipeline != 2 || got.Scheme != scheme {
		t.Fatalf("engine received %#v", cmd)
	}
}

func TestIPCSendModifications(t *testing.T) {
	t.Parallel()

	ctrl, h := startIPCFixture(t)

	value := "container"
	err := ctrl.Send(ModifyAttribute{
		Pipeline:      1,
		Node:          "body",
		Modifications: []AttrModification{{AttributeName: "class", NewValue: &value}},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	cmd := testutil.RequireReceive(t, h.sent, 5*time.Second, "waiting for the attribute command")
	got, ok := cmd.(ModifyAttribute)
	if !ok || got.Node != "body" || len(got.Modifications) != 1 {
		t.Fatalf("engine received %#v", cmd)
	}
	mod := got.Modifications[0]
	if mod.AttributeName != "class" || mod.NewValue == nil || *mod.NewValue != value {
		t.Fatalf("modification = %+v", mod)
	}
}

func TestIPCClosedConnection(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	ctrl := NewIPCControl(client)
	client.Close()
	server.Close()

	// The reader notices the close; afterwards every call fails fast.
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := ctrl.Send(Reload{Pipeline: 1})
		if errors.Is(err, ErrControlClosed) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Send after close = %v, want ErrControlClosed", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := ctrl.Request(GetDocumentElement{Pipeline: 1}); !errors.Is(err, ErrControlClosed) {
		t.Fatalf("Request after close = %v", err)
	}
}
