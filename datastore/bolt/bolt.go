/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bolt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/keygen"
	"github.com/suparena/pathstore/storagemodels"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// Config holds the settings for a bbolt-backed store.
type Config struct {
	// File is the database file, created when missing.
	File string
	// Bucket holds the leaves. Defaults to "tree".
	Bucket string
	// Timeout bounds the wait for the file lock.
	Timeout time.Duration
	// NoSync skips fsync after each commit. Only for tests.
	NoSync bool
}

// DefaultConfig returns a Config with defaults filled in for file.
func DefaultConfig(file string) Config {
	return Config{
		File:    file,
		Bucket:  "tree",
		Timeout: 10 * time.Second,
	}
}

func (c *Config) validate() error {
	if c.File == "" {
		return errors.NewValidationError("File", "bolt file is required")
	}
	if c.Bucket == "" {
		c.Bucket = "tree"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}

// Store keeps every scalar leaf of the tree under its full path, msgpack-encoded, in a single
// bucket. Reads prefix-scan the subtree and reassemble it; every write is one transaction.
type Store struct {
	db     *bbolt.DB
	bucket []byte
	keys   keygen.Generator
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

// Open opens or creates the database file described by cfg.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bopt := *bbolt.DefaultOptions
	bopt.Timeout = cfg.Timeout
	bopt.NoSync = cfg.NoSync
	bopt.FreelistType = bbolt.FreelistMapType

	db, err := bbolt.Open(cfg.File, 0600, &bopt)
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", cfg.File, err)
	}

	s := &Store{db: db, bucket: []byte(cfg.Bucket), keys: keygen.Default()}
	for _, opt := range opts {
		opt(s)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: create bucket %q: %w", cfg.Bucket, err)
	}
	return s, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read assembles the subtree stored at path.
func (s *Store) Read(ctx context.Context, path storagemodels.Path) (any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var leaves []storagemodels.Leaf
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		leaves, err = s.scan(tx.Bucket(s.bucket), path)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	v := storagemodels.Assemble(path, leaves)
	return v, v != nil, nil
}

// Query reads the node at path and narrows its children in memory.
func (s *Store) Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Limit() == 0 {
		return []storagemodels.Child{}, nil
	}
	node, _, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return storagemodels.Apply(node, q)
}

// Write stores value at path in a single transaction.
func (s *Store) Write(ctx context.Context, path storagemodels.Path, value any, mode datastore.WriteMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepared, err := datastore.PrepareWrite(value, mode)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if mode == datastore.Replace {
			return s.replace(b, path, prepared)
		}
		for k, v := range prepared.(map[string]any) {
			if err := s.replace(b, path.Child(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateKey returns a fresh key from the configured generator.
func (s *Store) GenerateKey(ctx context.Context, path storagemodels.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.keys.NewKey(), nil
}

// Delete removes every leaf at or below path.
func (s *Store) Delete(ctx context.Context, path storagemodels.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.deleteSubtree(tx.Bucket(s.bucket), path)
	})
}

func (s *Store) replace(b *bbolt.Bucket, path storagemodels.Path, value any) error {
	if err := s.deleteSubtree(b, path); err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	value = storagemodels.Treeify(value)
	if _, isMap := value.(map[string]any); path.IsRoot() && !isMap {
		return errors.NewValidationError("value", "the root can only hold a mapping")
	}
	// a scalar stored at an ancestor would shadow the new subtree
	for anc := path.Parent(); !anc.IsRoot(); anc = anc.Parent() {
		if err := b.Delete(leafKey(anc)); err != nil {
			return err
		}
	}

	for _, leaf := range storagemodels.Flatten(path, value) {
		data, err := msgpack.Marshal(leaf.Value)
		if err != nil {
			return errors.NewMalformedPayloadError(leaf.Path.String(), err)
		}
		if err := b.Put(leafKey(leaf.Path), data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteSubtree(b *bbolt.Bucket, path storagemodels.Path) error {
	var keys [][]byte
	s.walk(b, path, func(k, _ []byte) {
		keys = append(keys, bytes.Clone(k))
	})
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) scan(b *bbolt.Bucket, path storagemodels.Path) ([]storagemodels.Leaf, error) {
	var (
		leaves []storagemodels.Leaf
		derr   error
	)
	s.walk(b, path, func(k, v []byte) {
		if derr != nil {
			return
		}
		var raw any
		if err := msgpack.Unmarshal(v, &raw); err != nil {
			derr = errors.NewMalformedPayloadError(string(k), err)
			return
		}
		val, err := storagemodels.Normalize(raw)
		if err != nil {
			derr = errors.AtPath(err, string(k))
			return
		}
		leaves = append(leaves, storagemodels.Leaf{Path: storagemodels.ParsePath(string(k)), Value: val})
	})
	return leaves, derr
}

// walk visits the leaf stored at path and every leaf below it.
func (s *Store) walk(b *bbolt.Bucket, path storagemodels.Path, fn func(k, v []byte)) {
	c := b.Cursor()
	if path.IsRoot() {
		for k, v := c.First(); k != nil; k, v = c.Next() {
			fn(k, v)
		}
		return
	}

	exact := leafKey(path)
	prefix := string(exact) + storagemodels.Separator
	for k, v := c.Seek(exact); k != nil && bytes.HasPrefix(k, exact); k, v = c.Next() {
		if string(k) == string(exact) || strings.HasPrefix(string(k), prefix) {
			fn(k, v)
		}
	}
}

func leafKey(p storagemodels.Path) []byte {
	return []byte(p.String())
}
