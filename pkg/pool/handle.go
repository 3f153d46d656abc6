package pool

import (
	"context"
	"sync"
)

// Handle is the single-assignment result cell for a submitted task.
// It is written exactly once, by the task wrapper on whichever worker runs
// the task (or by shutdown cancellation), and may be read any number of
// times afterwards, blocking or polling.
type Handle[T any] struct {
	done chan struct{}
	once sync.Once

	value T
	err   error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// complete writes the outcome. Subsequent calls are no-ops, which keeps the
// exactly-once write guarantee even if shutdown races a finishing worker.
func (h *Handle[T]) complete(value T, err error) {
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
	})
}

// Done returns a channel closed once the outcome is written
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Get blocks until the task's outcome is written or ctx is done.
// A ctx error abandons the wait; it does not affect the task.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryGet polls for the outcome without blocking. The third return is false
// while the task has not completed.
func (h *Handle[T]) TryGet() (T, error, bool) {
	select {
	case <-h.done:
		return h.value, h.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Err returns the task error after completion, or nil if the task has not
// completed or succeeded
func (h *Handle[T]) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}
