// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"
	"testing"
)

func TestAccessibilityBootstrapAndTraits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	accessibility := f.target.Encode(f.registry).AccessibilityActor
	if accessibility == "" {
		t.Fatal("target form names no accessibility actor")
	}

	msg := reply(t, f.dispatch(t, stream, conn, accessibility, "bootstrap", nil))
	state, _ := msg["state"].(map[string]any)
	if state == nil || state["enabled"] != false {
		t.Fatalf("bootstrap reply = %v", msg)
	}

	msg = reply(t, f.dispatch(t, stream, conn, accessibility, "getTraits", nil))
	traits, _ := msg["traits"].(map[string]any)
	if traits == nil || traits["tabbingOrder"] != true {
		t.Fatalf("getTraits reply = %v", msg)
	}
}

func TestAccessibilityHandsOutChildren(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	accessibility := f.target.Encode(f.registry).AccessibilityActor

	msg := reply(t, f.dispatch(t, stream, conn, accessibility, "getSimulator", nil))
	simulator, _ := msg["actor"].(string)
	if !strings.HasPrefix(simulator, KindSimulator.Prefix) {
		t.Fatalf("getSimulator reply = %v", msg)
	}
	if _, ok := f.registry.Get(simulator); !ok {
		t.Fatalf("simulator %q not registered", simulator)
	}

	msg = reply(t, f.dispatch(t, stream, conn, accessibility, "getWalker", nil))
	walker, _ := msg["actor"].(string)
	if !strings.HasPrefix(walker, KindAccessibleWalker.Prefix) {
		t.Fatalf("getWalker reply = %v", msg)
	}
	if _, ok := f.registry.Get(walker); !ok {
		t.Fatalf("accessible walker %q not registered", walker)
	}
	if walker == simulator {
		t.Fatal("walker and simulator share a name")
	}
}
