package live

import "context"

// Snapshot is one emission of a watched query: the fresh result or the error
// that evaluation produced.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// Watch evaluates snapshot immediately and again after every change to one of
// the given tables, sending each result on the returned channel. The channel
// is closed when ctx is cancelled. Concurrent watchers are independent; each
// holds its own subscription.
func Watch[T any](ctx context.Context, bus *Bus, tables []string, snapshot func(context.Context) (T, error)) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	sub := bus.Subscribe(tables...)

	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() bool {
			v, err := snapshot(ctx)
			select {
			case out <- Snapshot[T]{Value: v, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.C:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
