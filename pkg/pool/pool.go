package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jzx17/stealpool/pkg/deque"
	"github.com/jzx17/stealpool/pkg/types"
)

// Config defines configuration for a Pool
type Config struct {
	// Workers is the number of worker goroutines, fixed for the pool's lifetime
	Workers int

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger for lifecycle and detached-error logging (optional, defaults to no-op)
	Logger *zerolog.Logger

	// ErrorHandler receives errors from detached submissions (optional)
	ErrorHandler types.ErrorHandler
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Clock:   types.NewRealClock(),
	}
}

// pool lifecycle states
const (
	stateRunning int32 = iota + 1
	stateClosed
)

// Pool is a fixed-size work-stealing task scheduler. Each worker owns a
// deque it drains front-first; idle workers steal from peers' tails. New
// submissions are assigned round-robin through a rotating index of worker
// ids, biased toward recently idled workers.
type Pool struct {
	config  *Config
	workers []*worker

	// index holds exactly one id per live worker; its head names the next
	// assignment target
	index *deque.Deque[int]

	// pending counts accepted-but-not-yet-started tasks, pool-wide
	pending int64

	// cancelled counts tasks dropped unexecuted at shutdown
	cancelled int64

	state     int32
	closeOnce sync.Once
	ctx       context.Context
	cancelCtx context.CancelFunc

	logger zerolog.Logger
	clock  types.Clock
}

// New creates a pool and starts all its workers. Unlike schedulers that
// silently shrink on a failed spawn, construction either yields a pool of
// exactly config.Workers workers or an error.
func New(config *Config) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if config.Workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", config.Workers)
	}
	if config.Clock == nil {
		config.Clock = types.NewRealClock()
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	p := &Pool{
		config: config,
		index:  deque.New[int](),
		logger: logger,
		clock:  config.Clock,
	}
	p.ctx, p.cancelCtx = context.WithCancel(context.Background())

	p.workers = make([]*worker, config.Workers)
	for i := 0; i < config.Workers; i++ {
		p.workers[i] = newWorker(i, p)
		p.index.PushBack(i)
	}

	atomic.StoreInt32(&p.state, stateRunning)
	for _, w := range p.workers {
		go w.run()
	}

	p.logger.Debug().Int("workers", config.Workers).Msg("pool started")
	return p, nil
}

// Submit schedules fn on the pool and returns a handle to its eventual
// outcome. The callable runs at most once; its error, or a wrapped panic,
// reaches the submitter only through the handle. Execution is asynchronous
// and Submit never blocks.
func Submit[T any](p *Pool, fn func(ctx context.Context) (T, error)) (*Handle[T], error) {
	if fn == nil {
		return nil, fmt.Errorf("callable cannot be nil")
	}

	h := newHandle[T]()
	if err := p.enqueue(newTask(fn, h)); err != nil {
		return nil, err
	}
	return h, nil
}

// SubmitDetached schedules fn with no result handle. An error or panic from
// fn is passed to the configured ErrorHandler and logged; it never affects
// the pool or other submissions.
func (p *Pool) SubmitDetached(fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("callable cannot be nil")
	}
	return p.enqueue(newDetachedTask(fn, p.onDetachedError))
}

// enqueue assigns t to the round-robin target and wakes it. Increment
// before push keeps the pending counter a safe over-approximation for the
// workers' drain loops.
func (p *Pool) enqueue(t *task) error {
	if atomic.LoadInt32(&p.state) != stateRunning {
		return types.ErrPoolClosed
	}

	id, ok := p.index.FrontToBack()
	if !ok {
		return types.ErrNoWorkers
	}

	w := p.workers[id]
	atomic.AddInt64(&p.pending, 1)
	w.queue.PushBack(t)
	w.wake.release()

	// A close may have slipped in after the state check above, in which case
	// the worker could already be gone. Anything still in the queue once the
	// stop flag is up is defined to never run, so cancel it here; queue
	// removal is exactly-once, so this cannot race a worker into double
	// handling.
	if p.stopping() {
		p.cancelQueue(w)
	}
	return nil
}

// cancelQueue drains w's queue, resolving every task as cancelled
func (p *Pool) cancelQueue(w *worker) int {
	cancelled := 0
	for {
		t, ok := w.queue.PopFront()
		if !ok {
			break
		}
		atomic.AddInt64(&p.pending, -1)
		t.cancel()
		cancelled++
	}
	if cancelled > 0 {
		atomic.AddInt64(&p.cancelled, int64(cancelled))
	}
	return cancelled
}

func (p *Pool) onDetachedError(err error) {
	if handler := p.config.ErrorHandler; handler != nil {
		if handled := handler(err); handled == nil {
			return
		}
	}
	p.logger.Error().Err(err).Msg("detached task failed")
}

// stopping reports whether shutdown has been requested. Workers sample this
// cooperatively at loop-cycle boundaries.
func (p *Pool) stopping() bool {
	return atomic.LoadInt32(&p.state) == stateClosed
}

// Shutdown stops the pool: it marks the pool closed, wakes every worker,
// and blocks until all of them have returned. In-flight tasks always finish;
// tasks still queued when their worker observes the stop are resolved as
// cancelled (types.ErrTaskCancelled) rather than left hanging. Idempotent.
func (p *Pool) Shutdown() error {
	p.closeOnce.Do(func() {
		atomic.StoreInt32(&p.state, stateClosed)

		for _, w := range p.workers {
			w.wake.release()
		}
		for _, w := range p.workers {
			<-w.done
		}

		// Sweep tasks that raced the close: accepted before the state flip
		// but pushed after their worker exited.
		for _, w := range p.workers {
			p.cancelQueue(w)
		}

		p.cancelCtx()
		p.logger.Info().
			Int64("cancelled", atomic.LoadInt64(&p.cancelled)).
			Msg("pool shut down")
	})
	return nil
}

// Close closes the pool. Alias of Shutdown, satisfying io.Closer.
func (p *Pool) Close() error {
	return p.Shutdown()
}

// Size returns the number of live workers
func (p *Pool) Size() int {
	if p.IsClosed() {
		return 0
	}
	return len(p.workers)
}

// Pending returns the pool-wide count of accepted-but-not-yet-started tasks.
// The value may be transiently stale; treat it as a heuristic.
func (p *Pool) Pending() int64 {
	return atomic.LoadInt64(&p.pending)
}

// IsRunning checks if the pool is accepting submissions
func (p *Pool) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == stateRunning
}

// IsClosed checks if the pool has been shut down
func (p *Pool) IsClosed() bool {
	return atomic.LoadInt32(&p.state) == stateClosed
}

// Stats gets pool statistics
func (p *Pool) Stats() types.PoolStats {
	stats := types.PoolStats{
		Workers:   len(p.workers),
		Pending:   atomic.LoadInt64(&p.pending),
		Cancelled: atomic.LoadInt64(&p.cancelled),
		PerWorker: make([]types.WorkerStats, len(p.workers)),
	}
	for i, w := range p.workers {
		stats.PerWorker[i] = w.stats()
	}
	return stats
}
