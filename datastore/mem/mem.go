/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mem provides an in-memory TreeStore for tests and embedded use
package mem

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/keygen"
	"github.com/suparena/pathstore/storagemodels"
)

// Store is an in-memory implementation of datastore.TreeStore.
// Sequences are kept as index-keyed mappings, the same shape the other backends persist.
type Store struct {
	mu   sync.RWMutex
	root any
	keys keygen.Generator

	readError   error
	queryError  error
	writeError  error
	deleteError error

	reads   atomic.Int64
	queries atomic.Int64
	writes  atomic.Int64
}

var _ datastore.TreeStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithKeyGenerator sets the generator used by GenerateKey.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(s *Store) {
		s.keys = g
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{keys: keygen.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithReadError makes Read operations return an error
func (s *Store) WithReadError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readError = err
	return s
}

// WithQueryError makes Query operations return an error
func (s *Store) WithQueryError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryError = err
	return s
}

// WithWriteError makes Write operations return an error
func (s *Store) WithWriteError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeError = err
	return s
}

// WithDeleteError makes Delete operations return an error
func (s *Store) WithDeleteError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteError = err
	return s
}

// Read returns a copy of the node at path.
func (s *Store) Read(ctx context.Context, path storagemodels.Path) (any, bool, error) {
	s.reads.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readError != nil {
		return nil, false, s.readError
	}

	node := lookup(s.root, path.Segments())
	if node == nil {
		return nil, false, nil
	}
	return storagemodels.Arrayify(storagemodels.Clone(node)), true, nil
}

// Query narrows the children of the node at path in memory.
func (s *Store) Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error) {
	s.queries.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.queryError != nil {
		return nil, s.queryError
	}

	node := lookup(s.root, path.Segments())
	return storagemodels.Apply(storagemodels.Arrayify(storagemodels.Clone(node)), q)
}

// Write stores value at path.
func (s *Store) Write(ctx context.Context, path storagemodels.Path, value any, mode datastore.WriteMode) error {
	s.writes.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}

	prepared, err := datastore.PrepareWrite(value, mode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeError != nil {
		return s.writeError
	}

	segs := path.Segments()
	if mode == datastore.Replace {
		s.root = setAt(s.root, segs, storagemodels.Treeify(prepared))
		return nil
	}
	for k, v := range prepared.(map[string]any) {
		s.root = setAt(s.root, append(segs[:len(segs):len(segs)], k), storagemodels.Treeify(v))
	}
	return nil
}

// GenerateKey returns a fresh key from the configured generator.
func (s *Store) GenerateKey(ctx context.Context, path storagemodels.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.keys.NewKey(), nil
}

// Delete removes the node at path.
func (s *Store) Delete(ctx context.Context, path storagemodels.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteError != nil {
		return s.deleteError
	}
	s.root = setAt(s.root, path.Segments(), nil)
	return nil
}

// Helper methods for testing

// Reads returns the number of Read calls made so far
func (s *Store) Reads() int64 {
	return s.reads.Load()
}

// Queries returns the number of Query calls made so far
func (s *Store) Queries() int64 {
	return s.queries.Load()
}

// Writes returns the number of Write calls made so far
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

// Snapshot returns a copy of the whole tree
func (s *Store) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storagemodels.Arrayify(storagemodels.Clone(s.root))
}

// Clear removes all data and resets the counters
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = nil
	s.reads.Store(0)
	s.queries.Store(0)
	s.writes.Store(0)
}

func lookup(node any, segs []string) any {
	for _, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[seg]
	}
	return node
}

// setAt returns node with v stored under segs. Intermediate mappings are created as needed,
// replacing scalars in the way, and mappings left empty are pruned.
func setAt(node any, segs []string, v any) any {
	if len(segs) == 0 {
		return v
	}
	m, ok := node.(map[string]any)
	if !ok {
		if v == nil {
			return node
		}
		m = make(map[string]any)
	}
	child := setAt(m[segs[0]], segs[1:], v)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
