// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"
	"testing"
)

func TestStringOrLongString(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	short := strings.Repeat("a", 500)
	if got := stringOrLongString(f.registry, short); got != short {
		t.Fatalf("short string was wrapped: %v", got)
	}

	// Limits count characters, not bytes.
	wide := strings.Repeat("é", 500)
	if got := stringOrLongString(f.registry, wide); got != wide {
		t.Fatalf("500-rune string was wrapped: %v", got)
	}

	long := strings.Repeat("é", 501)
	grip, ok := stringOrLongString(f.registry, long).(LongStringMsg)
	if !ok {
		t.Fatal("long string was not wrapped in a grip")
	}
	if grip.Type != "longString" || grip.Length != 501 {
		t.Fatalf("grip = %+v", grip)
	}
	if grip.Initial != strings.Repeat("é", 500) {
		t.Fatalf("grip initial has %d runes", len([]rune(grip.Initial)))
	}
	if grip.Actor == "" {
		t.Fatalf("grip has no actor: %+v", grip)
	}
}

func TestLongStringSubstring(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	full := strings.Repeat("x", 600) + "tail"
	grip := stringOrLongString(f.registry, full).(LongStringMsg)

	msg := reply(t, f.dispatch(t, stream, conn, grip.Actor, "substring",
		map[string]any{"start": float64(600), "end": float64(604)}))
	if msg["substring"] != "tail" {
		t.Fatalf("substring reply = %v", msg)
	}

	for name, rng := range map[string][2]float64{
		"negative start": {-1, 4},
		"inverted":       {10, 4},
		"past the end":   {0, 700},
	} {
		bad := f.dispatch(t, stream, conn, grip.Actor, "substring",
			map[string]any{"start": rng[0], "end": rng[1]})
		if reply(t, bad)["error"] != "" {
			t.Fatalf("%s replied %v", name, bad)
		}
	}

	missing := f.dispatch(t, stream, conn, grip.Actor, "substring",
		map[string]any{"start": float64(0)})
	if reply(t, missing)["error"] != "missingParameter" {
		t.Fatalf("reply without end = %v", missing)
	}
}

func TestLongStringRelease(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	grip := stringOrLongString(f.registry, strings.Repeat("y", 600)).(LongStringMsg)

	msg := reply(t, f.dispatch(t, stream, conn, grip.Actor, "release", nil))
	if msg["from"] != grip.Actor {
		t.Fatalf("release reply = %v", msg)
	}
	if _, ok := f.registry.Get(grip.Actor); ok {
		t.Fatal("released actor is still registered")
	}

	// Requests after release report an unknown actor.
	gone := f.dispatch(t, stream, conn, grip.Actor, "substring",
		map[string]any{"start": float64(0), "end": float64(1)})
	if reply(t, gone)["error"] != "noSuchActor" {
		t.Fatalf("post-release reply = %v", gone)
	}
}
