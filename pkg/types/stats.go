// Package types defines shared statistics and callback types for the pool
package types

import "time"

// ErrorHandler receives errors from detached task submissions.
// Returning a non-nil error marks the error as unhandled; the pool logs it
// but takes no further action.
type ErrorHandler func(error) error

// WorkerStats defines per-worker statistics
type WorkerStats struct {
	// ID is the worker id, stable for the pool's lifetime
	ID int

	// State is the worker's loop state at sampling time
	State string

	// Executed is the number of tasks this worker ran from its own queue
	Executed int64

	// Stolen is the number of tasks this worker took from peers
	Stolen int64

	// Failed is the number of executed tasks that returned an error or panicked
	Failed int64

	// LastTaskTime is when this worker last started a task
	LastTaskTime time.Time
}

// TotalRun returns the total number of tasks this worker executed
func (ws WorkerStats) TotalRun() int64 {
	return ws.Executed + ws.Stolen
}

// PoolStats defines pool-wide statistics
type PoolStats struct {
	// Workers is the number of live workers
	Workers int

	// Pending is the number of accepted-but-not-yet-started tasks.
	// Transiently stale by design; a liveness heuristic, not an accounting total.
	Pending int64

	// Cancelled is the number of tasks dropped unexecuted at shutdown
	Cancelled int64

	// PerWorker holds one entry per worker
	PerWorker []WorkerStats
}
