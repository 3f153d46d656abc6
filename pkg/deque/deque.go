// Package deque provides the lock-guarded double-ended queue underlying the
// work-stealing pool.
//
// One instance backs each worker's task queue; a second instance, holding
// worker ids instead of tasks, serves as the pool's round-robin scheduler
// index. The owner of a queue consumes from the front while thieves remove
// from the back, so the two ends see minimal contention and the owner keeps
// oldest-first ordering for its own work.
package deque

import (
	"sync"
)

// Locker is the lock capability required by a Deque. *sync.Mutex satisfies
// it; tests inject counting lockers through NewWithLocker.
type Locker interface {
	Lock()
	Unlock()
	TryLock() bool
}

// Deque is a double-ended queue guarded by a single exclusive lock.
// Every mutating operation holds the lock only for the structural change;
// no caller code ever runs under it. An element is removed by at most one
// caller exactly once.
type Deque[T comparable] struct {
	mu    Locker
	items []T
}

// New creates a Deque guarded by a standard mutex
func New[T comparable]() *Deque[T] {
	return NewWithLocker[T](&sync.Mutex{})
}

// NewWithLocker creates a Deque guarded by the given lock
func NewWithLocker[T comparable](mu Locker) *Deque[T] {
	return &Deque[T]{mu: mu}
}

// PushFront inserts v at the head
func (d *Deque[T]) PushFront(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append([]T{v}, d.items...)
}

// PushBack inserts v at the tail
func (d *Deque[T]) PushBack(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, v)
}

// PopFront removes and returns the head element; false if empty. Never blocks.
func (d *Deque[T]) PopFront() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if len(d.items) == 0 {
		return zero, false
	}
	v := d.items[0]
	d.items[0] = zero // release the reference
	d.items = d.items[1:]
	return v, true
}

// PopBack removes and returns the tail element; false if empty. Never blocks.
func (d *Deque[T]) PopBack() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	n := len(d.items)
	if n == 0 {
		return zero, false
	}
	v := d.items[n-1]
	d.items[n-1] = zero
	d.items = d.items[:n-1]
	return v, true
}

// Steal removes and returns the tail element. Identical to PopBack; the
// separate name marks thief-side call sites: with the owner always popping
// the front, thieves taking the newest tail entries gives the classic
// work-stealing discipline.
func (d *Deque[T]) Steal() (T, bool) {
	return d.PopBack()
}

// RotateToFront removes v from wherever it sits, if present, and reinserts
// it at the head. Used to bias round-robin assignment toward a worker that
// just went idle.
func (d *Deque[T]) RotateToFront(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, item := range d.items {
		if item == v {
			copy(d.items[1:i+1], d.items[:i])
			d.items[0] = v
			return
		}
	}
}

// FrontToBack copies the head element, moves it to the tail, and returns the
// copy; false if empty. Picks a round-robin target with no external bookkeeping.
func (d *Deque[T]) FrontToBack() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if len(d.items) == 0 {
		return zero, false
	}
	v := d.items[0]
	copy(d.items, d.items[1:])
	d.items[len(d.items)-1] = v
	return v, true
}

// Empty reports whether the deque holds no elements
func (d *Deque[T]) Empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items) == 0
}

// Len returns the number of elements currently held
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
