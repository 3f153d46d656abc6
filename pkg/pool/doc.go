/*
Package pool implements a fixed-size, in-process work-stealing task scheduler.

# Overview

A Pool owns N worker goroutines, created at construction and alive until
Shutdown. Each worker owns one double-ended task queue; the owner drains it
oldest-first while idle peers steal newest-first from the opposite end, which
keeps contention on any one queue low and preserves the owner's locality.

Submissions are assigned round-robin through a rotating index of worker ids.
A worker that completes a full drain-and-steal pass with nothing found
rotates itself to the index front before parking, so the next submission
lands on the most recently idled worker.

# Core Components

  - Pool: the orchestrator; owns the workers, the scheduler index and the
    pool-wide pending counter, and exposes submission and lifecycle calls.
  - Handle: the single-assignment cell a submission's outcome is delivered
    through, with blocking (Get) and polling (TryGet) reads.
  - deque.Deque: the lock-guarded queue backing both the per-worker task
    queues and the scheduler index.

# Ordering and Cancellation

FIFO order holds only for tasks one worker executes from its own queue
without interference; stolen tasks may run out of submission order, and no
ordering exists across workers. Cancellation is cooperative: workers sample
the stop flag at loop-cycle boundaries and a running task is never
interrupted. Tasks still queued at shutdown resolve their handles with
types.ErrTaskCancelled instead of hanging their submitters.

# Usage

	p, err := pool.New(&pool.Config{Workers: 4})
	if err != nil {
		log.Fatal(err)
	}
	defer p.Shutdown()

	h, err := pool.Submit(p, func(ctx context.Context) (int, error) {
		return 6 * 7, nil
	})
	if err != nil {
		log.Fatal(err)
	}

	v, err := h.Get(context.Background())

Fire-and-forget work goes through SubmitDetached; its errors reach the
configured ErrorHandler and logger rather than a handle.

# Error Handling

Errors returned by callables pass through handles verbatim. Panics are
recovered inside the task wrapper, wrapped as *types.TaskPanicError with the
original panic value and stack, and delivered the same way; they never reach
the worker loop. Submission itself fails synchronously with
types.ErrPoolClosed or types.ErrNoWorkers.
*/
package pool
