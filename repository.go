/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pathstore

import (
	"context"
	"fmt"
	"reflect"

	"github.com/suparena/pathstore/codec"
	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// Repository provides typed access to objects of type T. Paths passed to its methods are resolved
// relative to the repository's base path, which is the root for NewRepository.
//
// T is the struct type itself; methods take and return *T so that types embedding codec.Identity
// receive their store key.
type Repository[T any] struct {
	db   *DB
	base storagemodels.Path
	name string
}

// NewRepository returns a repository for T rooted at the top of the tree.
func NewRepository[T any](db *DB) *Repository[T] {
	return newRepository[T](db, storagemodels.RootPath())
}

func newRepository[T any](db *DB, base storagemodels.Path) *Repository[T] {
	return &Repository[T]{
		db:   db,
		base: base,
		name: reflect.TypeOf((*T)(nil)).Elem().String(),
	}
}

// Base returns the path the repository resolves relative paths against.
func (r *Repository[T]) Base() storagemodels.Path {
	return r.base
}

// DB returns the DB the repository reads and writes through.
func (r *Repository[T]) DB() *DB {
	return r.db
}

func (r *Repository[T]) resolve(path string) storagemodels.Path {
	return r.base.Join(r.db.Ref(path))
}

// LoadOne reads and decodes the object at path. An absent node yields (nil, nil). The last path
// segment becomes the object's store key.
func (r *Repository[T]) LoadOne(ctx context.Context, path string) (*T, error) {
	p := r.resolve(path)
	r.db.logger.Debug("load one", "path", p.String(), "type", r.name)

	raw, found, err := r.db.store.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	obj, err := codec.DecodeWithKey[T](p.Key(), raw)
	if err != nil {
		return nil, errors.AtPath(err, p.String())
	}
	return obj, nil
}

// LoadMany queries the children of path and decodes each one. A nil query selects
// storagemodels.DefaultQuery(). Children that fail to decode are skipped and logged; the others
// are returned in query order.
func (r *Repository[T]) LoadMany(ctx context.Context, path string, q *storagemodels.Query) ([]*T, error) {
	query := storagemodels.DefaultQuery()
	if q != nil {
		query = *q
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.Limit() == 0 {
		return []*T{}, nil
	}

	p := r.resolve(path)
	r.db.logger.Debug("load many", "path", p.String(), "type", r.name, "query", query.String())

	children, err := r.db.store.Query(ctx, p, query)
	if err != nil {
		return nil, err
	}
	items, skipped := codec.DecodeChildren[T](children)
	r.logSkipped(p, skipped)
	return items, nil
}

// LoadAll reads the whole node at path and decodes every child, in no particular order.
func (r *Repository[T]) LoadAll(ctx context.Context, path string) ([]*T, error) {
	p := r.resolve(path)
	r.db.logger.Debug("load all", "path", p.String(), "type", r.name)

	raw, found, err := r.db.store.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*T{}, nil
	}

	var children []storagemodels.Child
	switch raw.(type) {
	case map[string]any, []any:
		children = storagemodels.Children(raw)
	default:
		r.db.logger.Warn("node is not a collection",
			"path", p.String(),
			"type", r.name,
			"kind", fmt.Sprintf("%T", raw),
		)
		return []*T{}, nil
	}
	items, skipped := codec.DecodeChildren[T](children)
	r.logSkipped(p, skipped)
	return items, nil
}

func (r *Repository[T]) logSkipped(p storagemodels.Path, skipped []error) {
	for _, err := range skipped {
		r.db.logger.Warn("skipping undecodable entry",
			"path", p.String(),
			"type", r.name,
			"error", err,
		)
	}
}

// Set merges the encoded fields of obj into the node at path. Fields absent from the record are
// left as stored.
func (r *Repository[T]) Set(ctx context.Context, path string, obj *T) error {
	return r.write(ctx, r.resolve(path), obj, datastore.Merge)
}

// Overwrite replaces the node at path with the encoded obj.
func (r *Repository[T]) Overwrite(ctx context.Context, path string, obj *T) error {
	return r.write(ctx, r.resolve(path), obj, datastore.Replace)
}

// Add stores obj as a child of path and returns its key. An object that already carries a store
// key is merged under that key; otherwise a fresh key is generated and, for identity-bearing
// types, assigned to obj.
func (r *Repository[T]) Add(ctx context.Context, path string, obj *T) (string, error) {
	if obj == nil {
		return "", errors.NewValidationError("obj", "object is nil")
	}
	p := r.resolve(path)
	key, _ := codec.KeyOf(any(obj))
	if key == "" {
		var err error
		if key, err = r.db.newKey(ctx, p); err != nil {
			return "", err
		}
	}
	if err := r.write(ctx, p.Child(key), obj, datastore.Merge); err != nil {
		return "", err
	}
	codec.SetKey(any(obj), key)
	return key, nil
}

// Delete removes the node at path.
func (r *Repository[T]) Delete(ctx context.Context, path string) error {
	p := r.resolve(path)
	r.db.logger.Debug("delete", "path", p.String(), "type", r.name)
	return r.db.store.Delete(ctx, p)
}

// DeleteObject removes the child of path stored under obj's key.
func (r *Repository[T]) DeleteObject(ctx context.Context, path string, obj *T) error {
	if obj == nil {
		return errors.NewValidationError("obj", "object is nil")
	}
	key, _ := codec.KeyOf(any(obj))
	if key == "" {
		return errors.NewValidationError("key", fmt.Sprintf("%s has no store key", r.name))
	}
	return r.Delete(ctx, r.db.Ref(path).Child(key).String())
}

func (r *Repository[T]) write(ctx context.Context, p storagemodels.Path, obj *T, mode datastore.WriteMode) error {
	if obj == nil {
		return errors.NewValidationError("obj", "object is nil")
	}
	record, err := codec.Encode(obj)
	if err != nil {
		return err
	}
	r.db.logger.Debug("write", "path", p.String(), "type", r.name, "mode", mode.String())
	return r.db.store.Write(ctx, p, record, mode)
}
