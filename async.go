/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pathstore

import (
	"context"

	"github.com/suparena/pathstore/future"
	"github.com/suparena/pathstore/storagemodels"
)

// Async exposes the operations of a Repository as futures. Each call starts one request on its
// own goroutine; the future resolves with exactly the result the blocking method would return.
type Async[T any] struct {
	repo *Repository[T]
}

// NewAsync wraps repo.
func NewAsync[T any](repo *Repository[T]) *Async[T] {
	return &Async[T]{repo: repo}
}

// Repository returns the wrapped repository.
func (a *Async[T]) Repository() *Repository[T] {
	return a.repo
}

func (a *Async[T]) LoadOne(ctx context.Context, path string) *future.Future[*T] {
	return future.Go(ctx, func(ctx context.Context) (*T, error) {
		return a.repo.LoadOne(ctx, path)
	})
}

func (a *Async[T]) LoadMany(ctx context.Context, path string, q *storagemodels.Query) *future.Future[[]*T] {
	return future.Go(ctx, func(ctx context.Context) ([]*T, error) {
		return a.repo.LoadMany(ctx, path, q)
	})
}

func (a *Async[T]) LoadAll(ctx context.Context, path string) *future.Future[[]*T] {
	return future.Go(ctx, func(ctx context.Context) ([]*T, error) {
		return a.repo.LoadAll(ctx, path)
	})
}

func (a *Async[T]) Set(ctx context.Context, path string, obj *T) *future.Future[struct{}] {
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.repo.Set(ctx, path, obj)
	})
}

func (a *Async[T]) Overwrite(ctx context.Context, path string, obj *T) *future.Future[struct{}] {
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.repo.Overwrite(ctx, path, obj)
	})
}

func (a *Async[T]) Add(ctx context.Context, path string, obj *T) *future.Future[string] {
	return future.Go(ctx, func(ctx context.Context) (string, error) {
		return a.repo.Add(ctx, path, obj)
	})
}

func (a *Async[T]) Delete(ctx context.Context, path string) *future.Future[struct{}] {
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.repo.Delete(ctx, path)
	})
}

func (a *Async[T]) DeleteObject(ctx context.Context, path string, obj *T) *future.Future[struct{}] {
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.repo.DeleteObject(ctx, path, obj)
	})
}
