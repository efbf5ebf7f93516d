/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package future

import (
	"context"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Future is the eventual result of an asynchronous call.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Go calls fn on a new goroutine and returns a Future for its result. A panic in fn resolves the
// future with an error carrying the panic value and stack.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		var (
			v   T
			err error
			pc  panics.Catcher
		)
		pc.Try(func() { v, err = fn(ctx) })
		if r := pc.Recovered(); r != nil {
			var zero T
			v, err = zero, r.AsError()
		}
		f.resolve(v, err)
	}()
	return f
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, nil)
	return f
}

// Failed returns a future already completed with err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx is done. On cancellation it returns ctx.Err()
// and the eventual result is discarded.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then chains fn after f. fn runs only when f succeeds; an error from f is passed through.
func Then[T, U any](ctx context.Context, f *Future[T], fn func(ctx context.Context, v T) (U, error)) *Future[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		v, err := f.Await(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(ctx, v)
	})
}

// Map transforms the value of f.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return Then(context.Background(), f, func(_ context.Context, v T) (U, error) {
		return fn(v), nil
	})
}

// All resolves with the values of every future in order, or with the errors of those that failed.
// The first failure cancels the wait on the rest.
func All[T any](ctx context.Context, futures ...*Future[T]) *Future[[]T] {
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		values := make([]T, len(futures))
		p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
		for i, f := range futures {
			i, f := i, f
			p.Go(func(ctx context.Context) error {
				v, err := f.Await(ctx)
				if err != nil {
					return err
				}
				values[i] = v
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return nil, err
		}
		return values, nil
	})
}
