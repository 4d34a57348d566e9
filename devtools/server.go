// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package devtools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/actors"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/metrics"
	"github.com/tern-browser/tern/prefs"
	"github.com/tern-browser/tern/protocol"
)

// Server is the remote debugging endpoint. One Server instance
// serves every connection and every webview of the browser.
type Server struct {
	registry *actor.Registry
	root     *actors.Root
	logger   *slog.Logger
	idMap    *id.Map

	nextStream   atomic.Uint32
	nextResource atomic.Uint64

	mu        sync.Mutex
	streams   map[protocol.StreamID]*protocol.Stream
	targets   map[id.BrowsingContextID]string
	pipelines map[id.PipelineID]id.BrowsingContextID
	netEvents map[string]string
}

// NewServer builds the registry with its singleton actors.
func NewServer(logger *slog.Logger, store *prefs.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	registry := actor.NewRegistry(logger)
	root := actors.NewRoot(registry)
	actors.NewPreference(registry, store)
	return &Server{
		registry:  registry,
		root:      root,
		logger:    logger,
		idMap:     id.NewMap(),
		streams:   make(map[protocol.StreamID]*protocol.Stream),
		targets:   make(map[id.BrowsingContextID]string),
		pipelines: make(map[id.PipelineID]id.BrowsingContextID),
		netEvents: make(map[string]string),
	}
}

// Registry exposes the actor registry, mainly to tests and embedders.
func (s *Server) Registry() *actor.Registry {
	return s.registry
}

// ListenAndServe accepts debugger connections until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("devtools server listening", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.ServeConn(conn)
	}
}

// ServeConn runs the read loop for one debugger connection. It
// returns when the peer disconnects or sends an unreadable packet.
func (s *Server) ServeConn(conn io.ReadWriteCloser) {
	streamID := protocol.StreamID(s.nextStream.Add(1))
	stream := protocol.NewStream(streamID, conn)

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	s.mu.Lock()
	s.streams[streamID] = stream
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.streams, streamID)
		s.mu.Unlock()
		s.registry.CleanupStream(streamID)
		stream.Close()
		s.logger.Info("debugger disconnected", "stream", streamID)
	}()

	if err := stream.WritePacket(s.root.Greeting()); err != nil {
		s.logger.Warn("greeting write failed", "stream", streamID, "error", err)
		return
	}
	s.logger.Info("debugger connected", "stream", streamID)

	for {
		msg, err := stream.ReadPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("packet read failed", "stream", streamID, "error", err)
			}
			return
		}
		s.registry.HandleMessage(msg, stream)
	}
}

// CloseStreams tears down every live connection, typically at
// shutdown.
func (s *Server) CloseStreams() {
	s.mu.Lock()
	streams := make([]*protocol.Stream, 0, len(s.streams))
	for _, stream := range s.streams {
		streams = append(streams, stream)
	}
	s.mu.Unlock()
	for _, stream := range streams {
		stream.Close()
	}
}

func (s *Server) targetFor(ctxID id.BrowsingContextID) (*actors.Target, bool) {
	s.mu.Lock()
	name, ok := s.targets[ctxID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return actor.Find[*actors.Target](s.registry, name), true
}

func (s *Server) targetForPipeline(pipeline id.PipelineID) (*actors.Target, bool) {
	s.mu.Lock()
	ctxID, ok := s.pipelines[pipeline]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.targetFor(ctxID)
}
