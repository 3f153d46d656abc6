package pool

// signal is the per-worker wake primitive: a 0/1 binary semaphore.
// release is idempotent and never accumulates; the pending counter, not the
// signal, tracks how much work exists.
type signal struct {
	ch chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{}, 1)}
}

// release sets the signal if not already set, waking a parked worker
func (s *signal) release() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// acquire blocks until the signal is set, then resets it
func (s *signal) acquire() {
	<-s.ch
}
