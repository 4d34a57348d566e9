// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"testing"
	"time"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/lib/testutil"
	"github.com/tern-browser/tern/script"
)

func TestFramerateRecordsTicks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	name := f.target.Encode(f.registry).FramerateActor
	if name == "" {
		t.Fatal("target form names no framerate actor")
	}

	msg := reply(t, f.dispatch(t, stream, conn, name, "startRecording", nil))
	if msg["from"] != name {
		t.Fatalf("startRecording reply = %v", msg)
	}
	cmd := testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the frame request")
	request, ok := cmd.(script.RequestAnimationFrame)
	if !ok || request.Actor != name {
		t.Fatalf("page received %#v", cmd)
	}

	// Each tick re-arms the next frame while the recording runs.
	framerate := actor.Find[*Framerate](f.registry, name)
	framerate.AddTick(16.7)
	testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the re-armed frame request")
	framerate.AddTick(33.4)
	testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the re-armed frame request")

	msg = reply(t, f.dispatch(t, stream, conn, name, "stopRecording", nil))
	ticks, _ := msg["ticks"].([]any)
	if len(ticks) != 2 || ticks[0] != 16.7 || ticks[1] != 33.4 {
		t.Fatalf("stopRecording ticks = %v", msg)
	}

	// Stopping drained the ticks; a tick after the stop is kept for the
	// next recording but no frame is requested for it.
	framerate.AddTick(50.1)
	msg = reply(t, f.dispatch(t, stream, conn, name, "stopRecording", nil))
	ticks, _ = msg["ticks"].([]any)
	if len(ticks) != 1 || ticks[0] != 50.1 {
		t.Fatalf("second stopRecording ticks = %v", msg)
	}
	select {
	case cmd := <-f.engine.sent:
		t.Fatalf("frame requested while not recording: %#v", cmd)
	default:
	}
}
