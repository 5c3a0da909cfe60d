// Package engine owns the full lifecycle of one burger assembly plant: it
// constructs the FIFO, lanes, generator, dispatcher and monitor, spawns a
// background task for each, and tears them all down cleanly on Stop.
package engine

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aszurita/burgerline/control"
	"github.com/aszurita/burgerline/dispatcher"
	"github.com/aszurita/burgerline/enginelog"
	"github.com/aszurita/burgerline/fifo"
	"github.com/aszurita/burgerline/generator"
	"github.com/aszurita/burgerline/lane"
	"github.com/aszurita/burgerline/menu"
	"github.com/aszurita/burgerline/monitor"
	"github.com/aszurita/burgerline/order"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Wire-visible constants (MAX_LANES, MAX_INGREDIENTS, MAX_ORDERS,
// MAX_LOGS_PER_LANE), shared with any control-panel process that attaches
// to the same engine.
const (
	MaxLanes       = 10
	MaxIngredients = 15
	MaxOrders      = fifo.Capacity
	MaxLogsPerLane = lane.MaxLogEntries
)

// bounds on the three constructor parameters, per spec.md §6.
const (
	minLanes, maxLanes               = 1, MaxLanes
	minStepSeconds, maxStepSeconds   = 1, 60
	minInterarrival, maxInterarrival = 1, 300
)

// Engine is the root object of one running plant. The zero value is not
// usable; construct with New.
type Engine struct {
	lanes      []*lane.Lane
	queue      *fifo.FIFO
	generator  *generator.Generator
	dispatcher *dispatcher.Dispatcher
	monitor    *monitor.Monitor
	control    *control.Plane

	totalCompleted int64
	droppedTimeout int64

	workerStep time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup

	started bool
	mu      sync.Mutex
}

// New validates (numLanes, stepSeconds, interarrivalSeconds) against
// spec.md §6's bounds and constructs an Engine ready to Start.
func New(numLanes int, stepSeconds, interarrivalSeconds int) (*Engine, error) {
	if numLanes < minLanes || numLanes > maxLanes {
		return nil, xerrors.Errorf("engine: num_lanes %d out of range [%d,%d]", numLanes, minLanes, maxLanes)
	}
	if stepSeconds < minStepSeconds || stepSeconds > maxStepSeconds {
		return nil, xerrors.Errorf("engine: step_seconds %d out of range [%d,%d]", stepSeconds, minStepSeconds, maxStepSeconds)
	}
	if interarrivalSeconds < minInterarrival || interarrivalSeconds > maxInterarrival {
		return nil, xerrors.Errorf("engine: interarrival_seconds %d out of range [%d,%d]", interarrivalSeconds, minInterarrival, maxInterarrival)
	}

	lanes := make([]*lane.Lane, numLanes)
	for i := range lanes {
		lanes[i] = lane.New(i, menu.BaseIngredients)
	}
	q := fifo.New(MaxOrders)

	e := &Engine{
		lanes: lanes,
		queue: q,
	}
	e.generator = generator.New(q, time.Duration(interarrivalSeconds)*time.Second)
	e.dispatcher = dispatcher.New(q, lanes, e.onOrderDropped)
	e.monitor = monitor.New(lanes)
	e.control = control.New(lanes, q.Len, q.Cap, e.TotalAdmitted, e.TotalCompleted)

	e.workerStep = time.Duration(stepSeconds) * time.Second
	return e, nil
}

// Start spawns numLanes+3 background tasks (one per lane, plus the
// generator, dispatcher and monitor) and returns immediately. Start must
// not be called more than once.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	for _, l := range e.lanes {
		l := l
		watchCancel(ctx, l)
		w := lane.NewWorker(l, e.workerStep, e.onOrderCompleted)
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			w.Run(ctx)
		}()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.generator.Run(ctx); err != nil {
			enginelog.Error("generator exited with error", "err", err)
		}
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.dispatcher.Run(ctx); err != nil {
			enginelog.Error("dispatcher exited with error", "err", err)
		}
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.monitor.Run(ctx); err != nil {
			enginelog.Error("monitor exited with error", "err", err)
		}
	}()
}

// watchCancel runs a small goroutine forwarding ctx's cancellation into l's
// condition variable, since a goroutine parked in (*sync.Cond).Wait cannot
// natively select on a context.
func watchCancel(ctx context.Context, l *lane.Lane) {
	go func() {
		<-ctx.Done()
		l.Broadcast()
	}()
}

// Stop cancels every background task, closes the FIFO so a producer parked
// on not-full wakes and observes shutdown, and joins all tasks. It returns
// an error (built with go-multierror) only when the join does not finish
// within the shutdown bound; errors returned by the tasks themselves are
// logged by the goroutines Start spawned, not returned here. Stop is safe to
// call at most once; the zero value returned by an Engine that was never
// Start-ed is nil.
func (e *Engine) Stop() error {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return nil
	}

	e.cancel()
	e.queue.Close()
	for _, l := range e.lanes {
		l.Broadcast()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	// Every sleep a background task takes (ingredient step, finalize,
	// back-off, sweep interval) is cut short by ctx cancellation, so tasks
	// exit promptly; the bound allows one ingredient step plus a fixed
	// slack for scheduling jitter.
	bound := e.workerStep + 5*time.Second

	var err error
	select {
	case <-done:
	case <-time.After(bound):
		err = multierror.Append(err, xerrors.New("engine: shutdown did not complete within bound"))
	}
	return err
}

// onOrderCompleted is wired into every Worker at Start time: it bumps
// total_completed and runs an immediate inventory check on the lane that
// just finished, per spec.md §4.4's finalizing->idle transition.
func (e *Engine) onOrderCompleted(l *lane.Lane) {
	atomic.AddInt64(&e.totalCompleted, 1)
	e.monitor.CheckLane(l)
}

// onOrderDropped is wired into the dispatcher: it counts TIMEOUT drops
// without touching total_completed, per spec.md §4.3.
func (e *Engine) onOrderDropped(o *order.Order) {
	atomic.AddInt64(&e.droppedTimeout, 1)
}

// TotalAdmitted returns the running count of orders the generator has
// enqueued.
func (e *Engine) TotalAdmitted() int64 { return e.generator.TotalAdmitted() }

// TotalCompleted returns the running count of orders every lane has
// finished.
func (e *Engine) TotalCompleted() int64 { return atomic.LoadInt64(&e.totalCompleted) }

// DroppedTimeout returns the running count of orders dropped after
// exhausting the dispatcher's retry cap.
func (e *Engine) DroppedTimeout() int64 { return atomic.LoadInt64(&e.droppedTimeout) }

// Control returns the control-plane handle for this engine's lanes and
// counters.
func (e *Engine) Control() *control.Plane { return e.control }

// Lanes returns the engine's lanes, in index order. Exposed for signal
// handlers that need to pick "a random lane" (SIGUSR1/SIGCONT).
func (e *Engine) Lanes() []*lane.Lane { return e.lanes }

// RandomLane returns a uniformly random lane, or nil if the engine has no
// lanes (never true for a validly constructed Engine).
func (e *Engine) RandomLane() *lane.Lane {
	if len(e.lanes) == 0 {
		return nil
	}
	return e.lanes[rand.Intn(len(e.lanes))]
}
