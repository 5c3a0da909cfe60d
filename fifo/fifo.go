// Package fifo implements the bounded, thread-safe, order-preserving queue
// that sits between the order generator and the dispatcher.
package fifo

import (
	"sync"

	"github.com/aszurita/burgerline/order"
	"golang.org/x/xerrors"
)

// Capacity is the fixed FIFO capacity, the MAX_ORDERS wire constant.
const Capacity = 100

// ErrShutdown is returned by Enqueue when the queue is told to stop
// accepting new orders while a producer is parked waiting for space.
var ErrShutdown = xerrors.New("fifo: shutting down")

// FIFO is a fixed-capacity circular buffer of *order.Order. Its lock is a
// leaf in the engine's lock ordering: no other lock may be held while
// acquiring it, and it never acquires another lock itself.
type FIFO struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf   []*order.Order
	front int
	back  int
	size  int

	// closed, once true, wakes every blocked producer/consumer so they
	// can observe shutdown instead of waiting forever.
	closed bool
}

// New returns an empty FIFO with the given capacity (Capacity by default
// when cap is <= 0).
func New(capacity int) *FIFO {
	if capacity <= 0 {
		capacity = Capacity
	}
	q := &FIFO{buf: make([]*order.Order, capacity)}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue inserts o at the back, blocking while the queue is full. It
// returns ErrShutdown without inserting if Close is called while the
// caller is parked waiting for space, or if the queue was already closed
// when Enqueue was called.
func (q *FIFO) Enqueue(o *order.Order) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == len(q.buf) && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrShutdown
	}

	q.buf[q.back] = o
	q.back = (q.back + 1) % len(q.buf)
	q.size++
	q.notEmpty.Signal()
	return nil
}

// TryDequeue removes and returns the front order without blocking. ok is
// false if the queue was empty.
func (q *FIFO) TryDequeue() (o *order.Order, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return nil, false
	}
	o = q.buf[q.front]
	q.buf[q.front] = nil
	q.front = (q.front + 1) % len(q.buf)
	q.size--
	q.notFull.Signal()
	return o, true
}

// Len returns a snapshot of the current size; it may be stale by the time
// the caller observes it.
func (q *FIFO) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the queue's fixed capacity.
func (q *FIFO) Cap() int {
	return len(q.buf)
}

// Close wakes every goroutine blocked in Enqueue so it can observe
// shutdown and return ErrShutdown instead of waiting forever. It does not
// discard any already-enqueued orders; Len() still reports the residual
// after Close.
func (q *FIFO) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}
