/*
Package future provides single-value asynchronous results.

A Future resolves exactly once, with a value or an error. Go runs a function on its own goroutine
and converts a panic into an error instead of crashing the process:

	f := future.Go(ctx, func(ctx context.Context) (*Alarm, error) {
	    return repo.LoadOne(ctx, path)
	})
	alarm, err := f.Await(ctx)

Futures compose with Then and Map, and All waits on a group of them.
*/
package future
