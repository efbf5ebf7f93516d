/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pathstore

import (
	"reflect"
	"sync"

	"github.com/suparena/pathstore/registry"
	"github.com/suparena/pathstore/storagemodels"
)

type repositoryKey struct {
	typ  reflect.Type
	path string
}

// repositorySet caches the repositories handed out by For, one per type and collection path.
type repositorySet struct {
	mu    sync.RWMutex
	repos map[repositoryKey]any
}

func newRepositorySet() *repositorySet {
	return &repositorySet{repos: make(map[repositoryKey]any)}
}

// For returns the repository for T rooted at the collection path registered for T with
// registry.RegisterPath, expanded with vars. Paths passed to the repository are relative to that
// collection: "" addresses the collection itself and "k1" one of its objects.
func For[T any](db *DB, vars map[string]string) (*Repository[T], error) {
	base, err := registry.ResolvePath[T](vars)
	if err != nil {
		return nil, err
	}
	return cachedRepository[T](db, base), nil
}

func cachedRepository[T any](db *DB, base storagemodels.Path) *Repository[T] {
	key := repositoryKey{typ: reflect.TypeOf((*T)(nil)).Elem(), path: base.String()}

	db.repos.mu.RLock()
	repo, exists := db.repos.repos[key]
	db.repos.mu.RUnlock()
	if exists {
		return repo.(*Repository[T])
	}

	db.repos.mu.Lock()
	defer db.repos.mu.Unlock()
	if repo, exists := db.repos.repos[key]; exists {
		return repo.(*Repository[T])
	}
	r := newRepository[T](db, base)
	db.repos.repos[key] = r
	return r
}

// At returns a repository for T rooted at path relative to r's base.
func (r *Repository[T]) At(path string) *Repository[T] {
	return cachedRepository[T](r.db, r.resolve(path))
}
