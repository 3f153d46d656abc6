package pool

import (
	"sync/atomic"
	"time"

	"github.com/jzx17/stealpool/pkg/deque"
	"github.com/jzx17/stealpool/pkg/types"
)

// WorkerState defines the state of a worker's loop
type WorkerState int32

const (
	// WorkerParked represents a worker blocked on its wake signal
	WorkerParked WorkerState = iota
	// WorkerDraining represents a worker consuming its own queue
	WorkerDraining
	// WorkerStealing represents a worker scanning peers for work
	WorkerStealing
	// WorkerStopped represents a terminated worker
	WorkerStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerParked:
		return "parked"
	case WorkerDraining:
		return "draining"
	case WorkerStealing:
		return "stealing"
	case WorkerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// worker is one worker record: a dedicated goroutine draining one specific
// queue, plus the wake signal and counters belonging to it. The id is stable
// for the pool's lifetime and doubles as the index into the peer slice.
type worker struct {
	id    int
	pool  *Pool
	queue *deque.Deque[*task]
	wake  *signal
	done  chan struct{}

	state int32 // atomic WorkerState

	// statistics
	executed     int64
	stolen       int64
	failed       int64
	lastTaskTime int64 // Unix nanosecond timestamp
}

func newWorker(id int, p *Pool) *worker {
	return &worker{
		id:    id,
		pool:  p,
		queue: deque.New[*task](),
		wake:  newSignal(),
		done:  make(chan struct{}),
	}
}

// State returns the current worker state
func (w *worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

func (w *worker) setState(state WorkerState) {
	atomic.StoreInt32(&w.state, int32(state))
}

// run is the worker loop: Parked -> Draining -> Stealing -> idle transition
// -> Parked, until a stop request is observed. The stop flag is sampled only
// at cycle boundaries, immediately after waking; work already visible to the
// worker always finishes before it reacts to a stop request.
func (w *worker) run() {
	defer close(w.done)

	log := w.pool.logger.With().Int("worker", w.id).Logger()
	log.Debug().Msg("worker started")

	for {
		w.setState(WorkerParked)
		w.wake.acquire()

		if w.pool.stopping() {
			n := w.pool.cancelQueue(w)
			w.setState(WorkerStopped)
			log.Debug().Int("cancelled", n).Msg("worker stopped")
			return
		}

		// Drain own work, then steal; keep going while the pending counter
		// says work may exist somewhere. The counter is a liveness heuristic:
		// a stale read costs at most one extra wake/park cycle.
		for atomic.LoadInt64(&w.pool.pending) > 0 {
			w.drain()
			if !w.stealOne() {
				break
			}
		}

		// Full pass found nothing: bias future assignment toward the most
		// recently idled worker before parking again.
		w.pool.index.RotateToFront(w.id)
	}
}

// drain pops the worker's own queue front-first until it is empty,
// executing each task
func (w *worker) drain() {
	w.setState(WorkerDraining)
	for {
		t, ok := w.queue.PopFront()
		if !ok {
			return
		}
		atomic.AddInt64(&w.pool.pending, -1)
		w.execute(t, false)
	}
}

// stealOne attempts one round of stealing across all peers in order,
// starting at the next id after our own. The first stolen task is executed
// and true is returned so the caller goes back to draining.
func (w *worker) stealOne() bool {
	w.setState(WorkerStealing)
	n := len(w.pool.workers)
	for i := 1; i < n; i++ {
		victim := w.pool.workers[(w.id+i)%n]
		if t, ok := victim.queue.Steal(); ok {
			atomic.AddInt64(&w.pool.pending, -1)
			w.execute(t, true)
			return true
		}
	}
	return false
}

// execute runs a single task. Task wrappers swallow their own panics, so
// nothing propagates into the loop.
func (w *worker) execute(t *task, stolen bool) {
	atomic.StoreInt64(&w.lastTaskTime, w.pool.clock.Now().UnixNano())

	if t.run(w.pool.ctx) {
		atomic.AddInt64(&w.failed, 1)
	}

	if stolen {
		atomic.AddInt64(&w.stolen, 1)
	} else {
		atomic.AddInt64(&w.executed, 1)
	}
}

// stats gets worker statistics
func (w *worker) stats() types.WorkerStats {
	return types.WorkerStats{
		ID:           w.id,
		State:        w.State().String(),
		Executed:     atomic.LoadInt64(&w.executed),
		Stolen:       atomic.LoadInt64(&w.stolen),
		Failed:       atomic.LoadInt64(&w.failed),
		LastTaskTime: time.Unix(0, atomic.LoadInt64(&w.lastTaskTime)),
	}
}
