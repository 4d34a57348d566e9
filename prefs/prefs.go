// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package prefs implements the browser preference store the devtools
// preference actor reads from. Preferences live in a single JSONC file
// (JSON with comments, in the tradition of a user.js) mapping dotted
// preference names to bool, string, or number values. The store can
// watch the file and reload it on change, so a preference edit shows
// up in an attached debugger without restarting the browser.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/jsonc"
)

// Store holds the loaded preference values. Safe for concurrent use:
// connection goroutines read while the watcher reloads.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]any
}

// Load reads the preference file. A missing file is not an error: the
// store starts empty and the watcher picks the file up when it appears.
func Load(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger, values: map[string]any{}}
	if err := s.reload(); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	return s, nil
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
		return fmt.Errorf("parse preference file %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever the preference file changes, until
// ctx is cancelled. A reload failure keeps the previous values; the
// file may be mid-write.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create preference watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.path); err != nil {
		return fmt.Errorf("watch preference file %s: %w", s.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.reload(); err != nil {
				s.logger.Warn("preference reload failed", "path", s.path, "error", err)
				continue
			}
			s.logger.Debug("preferences reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("preference watcher error", "path", s.path, "error", err)
		}
	}
}

// GetBool returns a boolean preference, or the fallback when the
// preference is absent or has another type.
func (s *Store) GetBool(name string, fallback bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[name].(bool); ok {
		return v
	}
	return fallback
}

// GetString returns a string preference, or the fallback.
func (s *Store) GetString(name string, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[name].(string); ok {
		return v
	}
	return fallback
}

// GetInt returns an integer preference, or the fallback. JSON numbers
// decode as float64; values with a fractional part fall back.
func (s *Store) GetInt(name string, fallback int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name].(float64)
	if !ok || v != float64(int64(v)) {
		return fallback
	}
	return int64(v)
}

// GetFloat returns a numeric preference, or the fallback.
func (s *Store) GetFloat(name string, fallback float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[name].(float64); ok {
		return v
	}
	return fallback
}
