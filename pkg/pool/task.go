package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/jzx17/stealpool/pkg/types"
)

// taskIDCounter is the global task ID counter
var taskIDCounter int64

// task is the erased unit of work held in worker queues. The submitted
// callable and its result delivery are bound into run at submission time, so
// the scheduler never sees argument or result types. A task is owned by
// exactly one queue, or by the worker executing it, at any instant.
type task struct {
	id string

	// run executes the callable and delivers its outcome, reporting whether
	// it failed; it must not panic
	run func(ctx context.Context) (failed bool)

	// cancel resolves the task's handle as cancelled when the task is
	// dropped unexecuted at shutdown
	cancel func()
}

func nextTaskID() string {
	return fmt.Sprintf("task-%d", atomic.AddInt64(&taskIDCounter, 1))
}

// newTask binds fn and its result handle into a task. The returned error
// from fn passes to the handle verbatim; a panic is captured with its stack
// as a *types.TaskPanicError. Nothing ever propagates into the worker loop.
func newTask[T any](fn func(ctx context.Context) (T, error), h *Handle[T]) *task {
	id := nextTaskID()
	return &task{
		id: id,
		run: func(ctx context.Context) (failed bool) {
			defer func() {
				if r := recover(); r != nil {
					var buf [4096]byte
					n := runtime.Stack(buf[:], false)
					var zero T
					h.complete(zero, types.NewTaskPanicError(id, r, string(buf[:n])))
					failed = true
				}
			}()

			v, err := fn(ctx)
			h.complete(v, err)
			return err != nil
		},
		cancel: func() {
			var zero T
			h.complete(zero, types.ErrTaskCancelled)
		},
	}
}

// newDetachedTask binds fn with no result handle. Errors and recovered
// panics go to onErr; cancellation at shutdown is silent.
func newDetachedTask(fn func(ctx context.Context) error, onErr func(error)) *task {
	id := nextTaskID()
	return &task{
		id: id,
		run: func(ctx context.Context) (failed bool) {
			defer func() {
				if r := recover(); r != nil {
					var buf [4096]byte
					n := runtime.Stack(buf[:], false)
					onErr(types.NewTaskPanicError(id, r, string(buf[:n])))
					failed = true
				}
			}()

			if err := fn(ctx); err != nil {
				onErr(err)
				return true
			}
			return false
		},
		cancel: func() {},
	}
}
