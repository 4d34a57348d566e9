// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"runtime"
	"sync"

	"github.com/zeebo/blake3"
)

// Store is the concurrent mapping from actor name to live actor. It is
// partitioned into a power-of-two number of shards, each behind its own
// RWMutex; the shard for a name is chosen by hashing the name. Lookups
// and insertions happen on every inbound message and every broadcast,
// from many connection goroutines at once, so a single global lock
// would serialize the whole server on its hottest path.
//
// Get returns the shared actor handle, not a copy: callers use the
// actor after the shard lock is released, which is required because a
// handler may recursively look up further actors while running.
type Store struct {
	shards []storeShard
	mask   uint32
}

type storeShard struct {
	mu     sync.RWMutex
	actors map[string]Actor
}

// NewStore sizes the shard array from available parallelism: the next
// power of two at or above four shards per logical CPU, capped at 256.
func NewStore() *Store {
	n := 1
	for n < runtime.GOMAXPROCS(0)*4 && n < 256 {
		n <<= 1
	}
	s := &Store{
		shards: make([]storeShard, n),
		mask:   uint32(n - 1),
	}
	for i := range s.shards {
		s.shards[i].actors = make(map[string]Actor)
	}
	return s
}

func (s *Store) shard(name string) *storeShard {
	sum := blake3.Sum256([]byte(name))
	h := uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
	return &s.shards[h&s.mask]
}

// Insert makes the actor visible under its name. Inserting over a live
// name replaces it; the registry's name allocator never reissues names,
// so a replacement only happens when a deferred registration commits
// the same actor twice, which the registry prevents.
func (s *Store) Insert(a Actor) {
	shard := s.shard(a.Name())
	shard.mu.Lock()
	shard.actors[a.Name()] = a
	shard.mu.Unlock()
}

// Get returns the actor registered under name. A miss is a routing
// condition, not a fault: clients may race actor teardown.
func (s *Store) Get(name string) (Actor, bool) {
	shard := s.shard(name)
	shard.mu.RLock()
	a, ok := shard.actors[name]
	shard.mu.RUnlock()
	return a, ok
}

// Remove deletes the actor registered under name. The actor object
// itself lives on until every other holder drops its reference.
func (s *Store) Remove(name string) {
	shard := s.shard(name)
	shard.mu.Lock()
	delete(shard.actors, name)
	shard.mu.Unlock()
}

// ForEach visits every live actor. The visited shard's read lock is
// held during each visit, so visitors must not mutate the store;
// stage removals through the registry's deferred set instead.
func (s *Store) ForEach(visit func(Actor)) {
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.RLock()
		for _, a := range shard.actors {
			visit(a)
		}
		shard.mu.RUnlock()
	}
}

// Len reports the number of live actors.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.RLock()
		n += len(shard.actors)
		shard.mu.RUnlock()
	}
	return n
}
