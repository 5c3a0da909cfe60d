// Package generator implements the plant's single order producer: it
// synthesizes orders from the menu catalogue at a configurable cadence and
// admits them to the FIFO.
package generator

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/aszurita/burgerline/enginelog"
	"github.com/aszurita/burgerline/fifo"
	"github.com/aszurita/burgerline/menu"
	"github.com/aszurita/burgerline/order"
	"golang.org/x/xerrors"
)

// Clock abstracts the passage of time so tests can run a generator without
// waiting on real sleeps. The production default is realClock.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Randomizer abstracts catalogue selection so tests can force a specific
// burger type instead of depending on math/rand's global source.
type Randomizer interface {
	Intn(n int) int
}

type realRandomizer struct{}

func (realRandomizer) Intn(n int) int { return rand.Intn(n) }

// Generator is the single producer feeding q. TotalAdmitted is safe to read
// concurrently via atomic.
type Generator struct {
	q             *fifo.FIFO
	interarrival  time.Duration
	clock         Clock
	rnd           Randomizer
	nextID        int64
	totalAdmitted int64
}

// New returns a Generator that admits orders to q every interarrival,
// starting order IDs at 1.
func New(q *fifo.FIFO, interarrival time.Duration) *Generator {
	return &Generator{
		q:            q,
		interarrival: interarrival,
		clock:        realClock{},
		rnd:          realRandomizer{},
	}
}

// SetClock overrides the clock used for interarrival sleeps. Intended for
// tests; production callers should leave the default realClock in place.
func (g *Generator) SetClock(c Clock) { g.clock = c }

// SetRandomizer overrides the source of catalogue-selection randomness.
// Intended for tests.
func (g *Generator) SetRandomizer(r Randomizer) { g.rnd = r }

// TotalAdmitted returns the running count of orders this generator has
// enqueued.
func (g *Generator) TotalAdmitted() int64 {
	return atomic.LoadInt64(&g.totalAdmitted)
}

// Run loops, admitting one order per interarrival interval, until ctx is
// cancelled. A cancellation observed either while sleeping or while blocked
// on a full queue ends the loop without emitting a further order, matching
// spec.md §4.2's cancellation rule.
func (g *Generator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		o, err := g.synthesize()
		if err != nil {
			return xerrors.Errorf("generator: synthesize: %w", err)
		}

		if err := g.admit(ctx, o); err != nil {
			if xerrors.Is(err, fifo.ErrShutdown) || xerrors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return xerrors.Errorf("generator: admit: %w", err)
		}
		atomic.AddInt64(&g.totalAdmitted, 1)
		enginelog.WithTrace(o.TraceID).Debug("order admitted", "order_id", o.ID, "kind", o.Kind)

		if !g.sleepOrCancel(ctx) {
			return nil
		}
	}
}

func (g *Generator) synthesize() (*order.Order, error) {
	kind := g.rnd.Intn(len(menu.Catalogue))
	recipe, err := menu.Recipe(kind)
	if err != nil {
		return nil, err
	}
	name, err := menu.Name(kind)
	if err != nil {
		return nil, err
	}
	id := atomic.AddInt64(&g.nextID, 1)
	return order.New(int(id), kind, name, recipe)
}

// admit enqueues o, returning ctx.Err() (never nil) if ctx is cancelled
// before the enqueue completes. The spawned goroutine keeps trying to
// enqueue in the background; it unblocks once the engine closes the FIFO
// during shutdown.
func (g *Generator) admit(ctx context.Context, o *order.Order) error {
	done := make(chan error, 1)
	go func() { done <- g.q.Enqueue(o) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Generator) sleepOrCancel(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		g.clock.Sleep(g.interarrival)
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
