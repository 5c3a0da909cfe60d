// Package dispatcher implements the single consumer that matches queued
// orders to eligible lanes, preserving FIFO age ordering among currently
// eligible orders and recycling orders that no lane can yet serve.
package dispatcher

import (
	"context"
	"time"

	"github.com/aszurita/burgerline/enginelog"
	"github.com/aszurita/burgerline/fifo"
	"github.com/aszurita/burgerline/lane"
	"github.com/aszurita/burgerline/order"
)

// RetryCap bounds how many assignment attempts an order gets before the
// dispatcher gives up on it (RETRY_CAP).
const RetryCap = 20

// backoff is how long the dispatcher sleeps after finding the queue empty
// or after a failed assignment scan, respectively.
const (
	emptyBackoff = 200 * time.Millisecond
	retryBackoff = 3 * time.Second
)

// Dispatcher is the single consumer draining q onto lanes.
type Dispatcher struct {
	q      *fifo.FIFO
	lanes  []*lane.Lane
	onDrop func(o *order.Order)
}

// New returns a Dispatcher scanning lanes in the given slice's index order
// (lowest index wins ties, per spec.md §4.3). onDrop, if non-nil, is called
// (outside any lock) for every order dropped after exhausting RetryCap.
func New(q *fifo.FIFO, lanes []*lane.Lane, onDrop func(o *order.Order)) *Dispatcher {
	return &Dispatcher{q: q, lanes: lanes, onDrop: onDrop}
}

// Run loops until ctx is cancelled, matching orders to lanes. It returns
// nil on a clean cancellation.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		o, ok := d.q.TryDequeue()
		if !ok {
			if !sleepCtx(ctx, emptyBackoff) {
				return nil
			}
			continue
		}

		if d.tryAssign(o) {
			continue
		}

		o.AssignmentAttempts++
		if o.AssignmentAttempts >= RetryCap {
			d.drop(o)
			continue
		}

		if err := d.q.Enqueue(o); err != nil {
			// Enqueue only fails this way at shutdown; stop rather than
			// spin retrying a closed queue.
			enginelog.WithTrace(o.TraceID).Warn("dispatcher: re-enqueue failed at shutdown", "order_id", o.ID)
			return nil
		}

		if !sleepCtx(ctx, retryBackoff) {
			return nil
		}
	}
}

// tryAssign scans lanes in index order and commits the first eligible one.
func (d *Dispatcher) tryAssign(o *order.Order) bool {
	for _, l := range d.lanes {
		if !l.Eligible(o.Recipe) {
			continue
		}
		if l.TryAssign(o) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) drop(o *order.Order) {
	enginelog.WithTrace(o.TraceID).Warn("dispatcher: TIMEOUT, dropping order", "order_id", o.ID, "attempts", o.AssignmentAttempts)
	if d.onDrop != nil {
		d.onDrop(o)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
