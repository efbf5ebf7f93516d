/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/viper"
	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/datastore/bolt"
	"github.com/suparena/pathstore/datastore/ddb"
	"github.com/suparena/pathstore/datastore/mem"
	"github.com/suparena/pathstore/keygen"
)

// opener creates a tree store from configuration. The returned function releases it.
type opener func(ctx context.Context, v *viper.Viper, keys keygen.Generator) (datastore.TreeStore, func() error, error)

// backendRegistry is a thread-safe set of named openers.
type backendRegistry struct {
	mu      sync.RWMutex
	openers map[string]opener
}

func newBackendRegistry() *backendRegistry {
	return &backendRegistry{openers: make(map[string]opener)}
}

// register stores the opener under the given name.
func (r *backendRegistry) register(name string, o opener) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.openers[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}
	r.openers[name] = o
	return nil
}

// open creates the backend registered under name.
func (r *backendRegistry) open(ctx context.Context, name string, v *viper.Viper, keys keygen.Generator) (datastore.TreeStore, func() error, error) {
	r.mu.RLock()
	o, exists := r.openers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, nil, fmt.Errorf("unknown backend %q (available: %v)", name, r.names())
	}
	return o(ctx, v, keys)
}

func (r *backendRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.openers))
	for n := range r.openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var backends = newBackendRegistry()

func init() {
	noop := func() error { return nil }

	mustRegister("mem", func(_ context.Context, _ *viper.Viper, keys keygen.Generator) (datastore.TreeStore, func() error, error) {
		return mem.New(mem.WithKeyGenerator(keys)), noop, nil
	})
	mustRegister("bolt", func(_ context.Context, v *viper.Viper, keys keygen.Generator) (datastore.TreeStore, func() error, error) {
		store, err := bolt.Open(boltConfig(v), bolt.WithKeyGenerator(keys))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	})
	mustRegister("ddb", func(ctx context.Context, v *viper.Viper, keys keygen.Generator) (datastore.TreeStore, func() error, error) {
		store, err := ddb.Open(ctx, ddbConfig(v), ddb.WithKeyGenerator(keys))
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	})
}

func mustRegister(name string, o opener) {
	if err := backends.register(name, o); err != nil {
		panic(err)
	}
}
