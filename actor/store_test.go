// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreInsertGetRemove(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a := &stubActor{Base: NewBase("target0")}
	s.Insert(a)

	got, ok := s.Get("target0")
	if !ok {
		t.Fatal("inserted actor not found")
	}
	if got != Actor(a) {
		t.Fatal("Get returned a different actor handle")
	}
	if _, ok := s.Get("target1"); ok {
		t.Fatal("lookup of unknown name succeeded")
	}

	s.Remove("target0")
	if _, ok := s.Get("target0"); ok {
		t.Fatal("removed actor still visible")
	}
	// Removing again is harmless.
	s.Remove("target0")
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	const goroutines = 8
	const perGoroutine = 1250

	s := NewStore()
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				name := fmt.Sprintf("actor-%d-%d", g, i)
				s.Insert(&stubActor{Base: NewBase(name)})
				if _, ok := s.Get(name); !ok {
					t.Errorf("actor %s not visible after insert", name)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if got := s.Len(); got != goroutines*perGoroutine {
		t.Fatalf("store holds %d actors, want %d", got, goroutines*perGoroutine)
	}
	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			name := fmt.Sprintf("actor-%d-%d", g, i)
			if _, ok := s.Get(name); !ok {
				t.Fatalf("actor %s lost", name)
			}
		}
	}
}

func TestStoreForEachVisitsAll(t *testing.T) {
	t.Parallel()

	s := NewStore()
	for i := 0; i < 100; i++ {
		s.Insert(&stubActor{Base: NewBase(fmt.Sprintf("actor-%d", i))})
	}
	seen := make(map[string]bool)
	s.ForEach(func(a Actor) {
		seen[a.Name()] = true
	})
	if len(seen) != 100 {
		t.Fatalf("ForEach visited %d actors, want 100", len(seen))
	}
}
