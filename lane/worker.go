package lane

import (
	"context"
	"math/rand"
	"time"

	"github.com/aszurita/burgerline/order"
)

// Worker drives one lane's idle -> assigned -> processing -> finalizing ->
// idle state machine.
type Worker struct {
	lane             *Lane
	ingredientStep   time.Duration
	finalizeMin      time.Duration
	finalizeMax      time.Duration
	onOrderCompleted func(l *Lane)
}

// NewWorker returns a Worker for l that sleeps ingredientStep between
// ingredients and 1-2s while finalizing, per spec.md §4.4. onOrderCompleted
// is invoked (outside any lock) once processedCount has been incremented,
// giving the caller a chance to bump engine-wide counters and run the
// per-lane inventory check.
func NewWorker(l *Lane, ingredientStep time.Duration, onOrderCompleted func(l *Lane)) *Worker {
	return &Worker{
		lane:             l,
		ingredientStep:   ingredientStep,
		finalizeMin:      1 * time.Second,
		finalizeMax:      2 * time.Second,
		onOrderCompleted: onOrderCompleted,
	}
}

// Run blocks until ctx is cancelled, processing one assignment at a time.
// A watcher goroutine forwarding ctx cancellation into the lane's
// condition variable must already be running (the engine wires this up at
// Start time) so that a worker parked in idle or paused wakes promptly on
// shutdown.
func (w *Worker) Run(ctx context.Context) {
	l := w.lane
	for {
		l.mu.Lock()
		for ctx.Err() == nil && (l.paused || l.current == nil) {
			l.cond.Wait()
		}
		if ctx.Err() != nil {
			l.mu.Unlock()
			return
		}
		assigned := l.current.Clone()
		l.mu.Unlock()

		w.process(ctx, assigned)
	}
}

// process takes private ownership of o, consumes its ingredients up
// front (so another lane's concurrent consumption can't invalidate
// admission-time eligibility mid-run), then walks the recipe one
// ingredient at a time, sleeping ingredientStep between each, before
// finalizing and returning the lane to idle.
func (w *Worker) process(ctx context.Context, o *order.Order) {
	l := w.lane

	for _, ingredient := range o.Recipe {
		if d := l.Dispenser(ingredient); d != nil {
			d.Decrement()
		}
	}

	l.mu.Lock()
	l.appendLogLocked("INITIATED "+o.Name, false, o.TraceID)
	l.mu.Unlock()

	for i, ingredient := range o.Recipe {
		l.mu.Lock()
		l.currentIngredient = ingredient
		l.displayState = "ADDING " + ingredient
		l.appendLogLocked("adding "+ingredient, false, o.TraceID)
		o.ProgressStep = i + 1
		l.mu.Unlock()

		if !sleepCtx(ctx, w.ingredientStep) {
			return
		}
	}

	l.mu.Lock()
	l.displayState = "FINALIZING " + o.Name
	l.appendLogLocked("READY "+o.Name, false, o.TraceID)
	l.mu.Unlock()

	packing := w.finalizeMin
	if w.finalizeMax > w.finalizeMin {
		packing += time.Duration(rand.Int63n(int64(w.finalizeMax - w.finalizeMin)))
	}
	if !sleepCtx(ctx, packing) {
		return
	}

	l.mu.Lock()
	l.processedCount++
	l.current = nil
	l.displayState = "IDLE"
	l.currentIngredient = ""
	l.mu.Unlock()

	if w.onOrderCompleted != nil {
		w.onOrderCompleted(l)
	}
}

// sleepCtx sleeps for d, returning false early if ctx is cancelled first.
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
