// Package lane implements a single preparation line: its dispensers,
// pause/resume control, bounded log ring, and the worker state machine
// that drains an assigned order ingredient by ingredient.
package lane

import (
	"sync"
	"time"

	"github.com/aszurita/burgerline/dispenser"
	"github.com/aszurita/burgerline/order"
	"github.com/google/uuid"
)

// MaxLogEntries bounds the per-lane log ring (MAX_LOGS_PER_BANDA).
const MaxLogEntries = 10

// LogEntry is one record in a lane's bounded log ring.
type LogEntry struct {
	Message   string
	Timestamp time.Time
	IsAlert   bool
	TraceID   uuid.UUID
}

// Lane aggregates one preparation line's dispensers, current assignment,
// counters, pause flag, log ring, and the condition variable its worker
// sleeps on while paused or idle.
//
// Lock ordering: Lane's own mutex guards everything below except the
// dispensers themselves, each of which has its own lock. Where both are
// held, the lane lock is taken first: TryAssign reads dispenser counts
// while holding it. Eligible, Replenish and the worker touch dispensers
// without holding the lane lock, and the monitor and control plane never
// take the lane lock to reach a dispenser.
type Lane struct {
	ID     int
	Active bool // reserved for future decommissioning; never cleared.

	mu   sync.Mutex
	cond *sync.Cond

	paused  bool
	current *order.Order

	dispensers map[string]*dispenser.Dispenser

	displayState      string
	currentIngredient string
	processedCount    int

	logs []LogEntry

	needsReplenish       bool
	lastInventoryAlertAt time.Time
}

// New returns a Lane stocked with one Capacity-filled dispenser per
// ingredient in ingredients.
func New(id int, ingredients []string) *Lane {
	l := &Lane{
		ID:           id,
		Active:       true,
		dispensers:   make(map[string]*dispenser.Dispenser, len(ingredients)),
		displayState: "IDLE",
	}
	l.cond = sync.NewCond(&l.mu)
	for _, name := range ingredients {
		l.dispensers[name] = dispenser.New(name)
	}
	return l
}

// Dispenser returns the dispenser for the named ingredient, or nil if this
// lane does not stock it.
func (l *Lane) Dispenser(name string) *dispenser.Dispenser {
	return l.dispensers[name]
}

func (l *Lane) appendLogLocked(msg string, isAlert bool, trace uuid.UUID) {
	entry := LogEntry{Message: msg, Timestamp: time.Now(), IsAlert: isAlert, TraceID: trace}
	if len(l.logs) < MaxLogEntries {
		l.logs = append(l.logs, entry)
		return
	}
	// Ring overwrite: drop the oldest, append the newest.
	copy(l.logs, l.logs[1:])
	l.logs[MaxLogEntries-1] = entry
}

// Logs returns a snapshot copy of the log ring, oldest first.
func (l *Lane) Logs() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.logs))
	copy(out, l.logs)
	return out
}

// Eligible reports whether this lane could currently accept an order
// requiring recipe: active, not paused, idle, and every ingredient in
// recipe has at least one unit available. The dispatcher calls this while
// scanning lanes in index order; committing the assignment is a separate,
// atomically-locked step (TryAssign) to close the scan-then-commit race.
func (l *Lane) Eligible(recipe []string) bool {
	l.mu.Lock()
	active, paused, busy := l.Active, l.paused, l.current != nil
	l.mu.Unlock()

	if !active || paused || busy {
		return false
	}
	for _, ingredient := range recipe {
		d := l.dispensers[ingredient]
		if d == nil || !d.Available() {
			return false
		}
	}
	return true
}

// TryAssign re-checks eligibility under the lane's own lock and, if still
// eligible, commits o as the lane's current assignment, updates display
// state, appends an ASSIGNED log entry, and wakes the worker. It reports
// whether the assignment was committed.
func (l *Lane) TryAssign(o *order.Order) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.Active || l.paused || l.current != nil {
		return false
	}
	for _, ingredient := range o.Recipe {
		d := l.dispensers[ingredient]
		if d == nil || !d.Available() {
			return false
		}
	}

	o.AssignedLane = l.ID
	l.current = o
	l.displayState = "PREPARING " + o.Name
	l.appendLogLocked("ASSIGNED "+o.Name, false, o.TraceID)
	l.cond.Signal()
	return true
}

// Pause sets paused, idempotently. The worker observes it at the top of
// its next loop iteration.
func (l *Lane) Pause() {
	l.mu.Lock()
	l.paused = true
	l.mu.Unlock()
}

// Resume clears paused, idempotently, and wakes the worker if it was
// sleeping on the condition variable.
func (l *Lane) Resume() {
	l.mu.Lock()
	l.paused = false
	l.mu.Unlock()
	l.cond.Broadcast()
}

// Broadcast wakes every goroutine parked on this lane's condition
// variable, regardless of paused/assignment state. The engine pairs this
// with context cancellation at shutdown, since a goroutine blocked in
// (*sync.Cond).Wait cannot natively observe a cancelled context.
func (l *Lane) Broadcast() {
	l.cond.Broadcast()
}

// Paused reports whether the lane is currently paused.
func (l *Lane) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// ProcessedCount returns the total number of orders this lane has
// completed.
func (l *Lane) ProcessedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.processedCount
}

// Busy reports whether the lane currently owns an order.
func (l *Lane) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// NeedsReplenish reports the monitor's most recent verdict for this lane.
func (l *Lane) NeedsReplenish() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.needsReplenish
}

// SetNeedsReplenish is called by the inventory monitor after a sweep.
func (l *Lane) SetNeedsReplenish(v bool) {
	l.mu.Lock()
	l.needsReplenish = v
	l.mu.Unlock()
}

// LastInventoryAlertAt returns the debounce timestamp for the monitor.
func (l *Lane) LastInventoryAlertAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastInventoryAlertAt
}

// RaiseInventoryAlert appends an alert log entry and stamps the debounce
// timestamp; called by the monitor when it finds a lane out of or low on
// stock.
func (l *Lane) RaiseInventoryAlert(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.needsReplenish = true
	l.lastInventoryAlertAt = time.Now()
	l.appendLogLocked(msg, true, uuid.Nil)
}

// Replenish resets every dispenser on this lane to capacity and clears the
// replenish flag. It is idempotent: calling it again while already full
// changes no counts.
func (l *Lane) Replenish() {
	for _, d := range l.dispensers {
		d.Fill()
	}
	l.mu.Lock()
	l.needsReplenish = false
	l.lastInventoryAlertAt = time.Time{}
	l.appendLogLocked("REPLENISHED", false, uuid.Nil)
	l.mu.Unlock()
}

// IngredientNames returns the set of ingredient kinds this lane stocks, in
// no particular order. Used by the inventory monitor to enumerate
// dispensers without reaching into internals.
func (l *Lane) IngredientNames() []string {
	names := make([]string, 0, len(l.dispensers))
	for name := range l.dispensers {
		names = append(names, name)
	}
	return names
}

// Snapshot is a point-in-time, lock-acquired read of a lane's externally
// visible state, used by the control plane's Snapshot operation. It is not
// part of a globally atomic read: the caller takes one lane lock at a
// time, so concurrent mutation of other lanes is possible between calls.
type Snapshot struct {
	ID                int
	Active            bool
	Paused            bool
	ProcessedCount    int
	DisplayState      string
	CurrentIngredient string
	Processing        bool
	CurrentOrderID    int
	NeedsReplenish    bool
	Logs              []LogEntry
}

// Snapshot returns a consistent read of this lane's fields.
func (l *Lane) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		ID:                l.ID,
		Active:            l.Active,
		Paused:            l.paused,
		ProcessedCount:    l.processedCount,
		DisplayState:      l.displayState,
		CurrentIngredient: l.currentIngredient,
		Processing:        l.current != nil,
		NeedsReplenish:    l.needsReplenish,
		Logs:              make([]LogEntry, len(l.logs)),
	}
	copy(s.Logs, l.logs)
	if l.current != nil {
		s.CurrentOrderID = l.current.ID
	}
	return s
}
