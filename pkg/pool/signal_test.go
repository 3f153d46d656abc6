package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignal_ReleaseWakesAcquire(t *testing.T) {
	s := newSignal()

	woke := make(chan struct{})
	go func() {
		s.acquire()
		close(woke)
	}()

	s.release()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("acquire did not wake after release")
	}
}

func TestSignal_ReleaseIsIdempotent(t *testing.T) {
	s := newSignal()

	// Repeated releases must not accumulate beyond one wake.
	for i := 0; i < 5; i++ {
		s.release()
	}

	s.acquire()

	// The second acquire must block: only one wake was stored.
	woke := make(chan struct{})
	go func() {
		s.acquire()
		close(woke)
	}()

	select {
	case <-woke:
		t.Fatal("signal accumulated more than one release")
	case <-time.After(20 * time.Millisecond):
	}

	s.release()
	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("acquire did not wake after fresh release")
	}
}

func TestSignal_AcquireResets(t *testing.T) {
	s := newSignal()

	s.release()
	s.acquire()

	assert.Empty(t, s.ch, "acquire consumes the stored wake")
}
