package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_IdleWorkersStealFromLoadedPeer(t *testing.T) {
	const workers = 4
	p, err := New(&Config{Workers: workers})
	require.NoError(t, err)
	defer p.Shutdown()

	// Pin worker 0 on a long task so it cannot drain its own queue.
	pinned := make(chan struct{})
	gate := make(chan struct{})
	pin := newDetachedTask(func(ctx context.Context) error {
		close(pinned)
		<-gate
		return nil
	}, func(error) {})
	p.workers[0].queue.PushBack(pin)
	atomic.AddInt64(&p.pending, 1)
	p.workers[0].wake.release()
	<-pinned

	// Load worker 0's queue with slow tasks while the peers sit idle.
	const numTasks = 30
	var wg sync.WaitGroup
	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		tk := newDetachedTask(func(ctx context.Context) error {
			time.Sleep(5 * time.Millisecond)
			wg.Done()
			return nil
		}, func(error) {})
		p.workers[0].queue.PushBack(tk)
		atomic.AddInt64(&p.pending, 1)
	}

	// Wake the idle peers; their own queues are empty, so everything they
	// run has to come from stealing worker 0's backlog.
	for _, w := range p.workers[1:] {
		w.wake.release()
	}

	wg.Wait()
	close(gate)

	for _, ws := range p.Stats().PerWorker[1:] {
		assert.Greater(t, ws.Stolen, int64(0),
			"worker %d never stole from the loaded peer", ws.ID)
	}

	// The pinned task's own accounting lands once the gate opens.
	assert.Eventually(t, func() bool {
		var total int64
		for _, ws := range p.Stats().PerWorker {
			total += ws.TotalRun()
		}
		return total == int64(numTasks+1)
	}, time.Second, 5*time.Millisecond,
		"every task ran exactly once, split between owner and thieves")
}

func TestPool_StolenWorkCompletesThroughHandles(t *testing.T) {
	p, err := New(&Config{Workers: 2})
	require.NoError(t, err)
	defer p.Shutdown()

	// A long task occupies one worker; the rest of the batch spreads across
	// both queues and finishes regardless of who runs what.
	gate := make(chan struct{})
	long, err := Submit(p, func(ctx context.Context) (int, error) {
		<-gate
		return -1, nil
	})
	require.NoError(t, err)

	var handles []*Handle[int]
	for i := 0; i < 20; i++ {
		i := i
		h, err := Submit(p, func(ctx context.Context) (int, error) {
			return i, nil
		})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	for i, h := range handles {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		v, err := h.Get(ctx)
		cancel()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}

	close(gate)
	v, err := long.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, v)
}

func TestPool_ConcurrentSubmitters(t *testing.T) {
	const (
		submitters        = 8
		tasksPerSubmitter = 1000
	)

	p, err := New(&Config{Workers: 4})
	require.NoError(t, err)

	var counter int64
	var done sync.WaitGroup
	done.Add(submitters * tasksPerSubmitter)

	var submitWG sync.WaitGroup
	for i := 0; i < submitters; i++ {
		submitWG.Add(1)
		go func() {
			defer submitWG.Done()
			for j := 0; j < tasksPerSubmitter; j++ {
				err := p.SubmitDetached(func(ctx context.Context) error {
					atomic.AddInt64(&counter, 1)
					done.Done()
					return nil
				})
				require.NoError(t, err)
			}
		}()
	}

	submitWG.Wait()
	done.Wait()

	assert.Equal(t, int64(submitters*tasksPerSubmitter), atomic.LoadInt64(&counter),
		"no lost task, no double execution")

	// Worker accounting agrees with the external counter.
	stats := p.Stats()
	var total int64
	for _, ws := range stats.PerWorker {
		total += ws.TotalRun()
	}
	assert.Equal(t, int64(submitters*tasksPerSubmitter), total)

	require.NoError(t, p.Shutdown())
}

func TestPool_SubmitDoesNotBlock(t *testing.T) {
	p, err := New(&Config{Workers: 1})
	require.NoError(t, err)
	defer p.Shutdown()

	gate := make(chan struct{})
	defer close(gate)
	_, err = Submit(p, func(ctx context.Context) (int, error) {
		<-gate
		return 0, nil
	})
	require.NoError(t, err)

	// With the single worker blocked, a burst of submissions must still be
	// accepted immediately: there is no queue capacity to wait on.
	start := time.Now()
	for i := 0; i < 1000; i++ {
		err := p.SubmitDetached(func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 2*time.Second)
}
