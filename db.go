/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pathstore

import (
	"context"
	"log/slog"

	"github.com/VictoriaMetrics/metrics"
	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/keygen"
	"github.com/suparena/pathstore/storagemodels"
)

// DB is the untyped entry point to a tree store. It is safe for concurrent use.
type DB struct {
	store  datastore.TreeStore
	logger *slog.Logger
	keys   keygen.Generator

	backend    string
	metricsSet *metrics.Set
	repos      *repositorySet
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// WithKeyGenerator generates child keys locally instead of asking the store.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(db *DB) {
		db.keys = g
	}
}

// WithBackendName sets the backend label used in metrics. Defaults to "store".
func WithBackendName(name string) Option {
	return func(db *DB) {
		db.backend = name
	}
}

// WithMetricsSet registers store metrics in set instead of the process-wide default set.
func WithMetricsSet(set *metrics.Set) Option {
	return func(db *DB) {
		db.metricsSet = set
	}
}

// New creates a DB on store. Unless store is already instrumented, every call the DB makes is
// counted and timed.
func New(store datastore.TreeStore, opts ...Option) *DB {
	db := &DB{backend: "store", repos: newRepositorySet()}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = slog.Default()
	}
	if _, ok := store.(*datastore.Instrumented); !ok {
		var iopts []datastore.InstrumentOption
		if db.metricsSet != nil {
			iopts = append(iopts, datastore.WithMetricsSet(db.metricsSet))
		}
		store = datastore.Instrument(store, db.backend, iopts...)
	}
	db.store = store
	return db
}

// Store returns the underlying tree store.
func (db *DB) Store() datastore.TreeStore {
	return db.store
}

// Logger returns the logger the DB reports with.
func (db *DB) Logger() *slog.Logger {
	return db.logger
}

// Ref resolves a raw slash-separated path. Empty segments are ignored, so "a//b/" and "/a/b"
// address the same node.
func (db *DB) Ref(raw string) storagemodels.Path {
	return storagemodels.ParsePath(raw)
}

// Get reads the raw node at path. The boolean is false when nothing is stored there.
func (db *DB) Get(ctx context.Context, path string) (any, bool, error) {
	p := db.Ref(path)
	db.logger.Debug("read", "path", p.String())
	return db.store.Read(ctx, p)
}

// SetValue replaces the node at path with v.
func (db *DB) SetValue(ctx context.Context, path string, v any) error {
	return db.write(ctx, db.Ref(path), v, datastore.Replace)
}

// UpdateValues merges the entries of values into the node at path. Nil entries remove children.
func (db *DB) UpdateValues(ctx context.Context, path string, values map[string]any) error {
	return db.write(ctx, db.Ref(path), values, datastore.Merge)
}

// Push stores v under a fresh child key of path and returns the key.
func (db *DB) Push(ctx context.Context, path string, v any) (string, error) {
	p := db.Ref(path)
	key, err := db.newKey(ctx, p)
	if err != nil {
		return "", err
	}
	if err := db.write(ctx, p.Child(key), v, datastore.Replace); err != nil {
		return "", err
	}
	return key, nil
}

// NewKey returns a fresh child key for path without writing anything.
func (db *DB) NewKey(ctx context.Context, path string) (string, error) {
	return db.newKey(ctx, db.Ref(path))
}

// Delete removes the node at path and everything below it.
func (db *DB) Delete(ctx context.Context, path string) error {
	p := db.Ref(path)
	db.logger.Debug("delete", "path", p.String())
	return db.store.Delete(ctx, p)
}

func (db *DB) newKey(ctx context.Context, p storagemodels.Path) (string, error) {
	if db.keys != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return db.keys.NewKey(), nil
	}
	return db.store.GenerateKey(ctx, p)
}

func (db *DB) write(ctx context.Context, p storagemodels.Path, v any, mode datastore.WriteMode) error {
	db.logger.Debug("write", "path", p.String(), "mode", mode.String())
	return db.store.Write(ctx, p, v, mode)
}
