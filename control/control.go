// Package control exposes the synchronous, typed operation surface that
// signal handlers, a control-panel process, or tests use to manipulate a
// running engine: pausing/resuming lanes, editing inventory, and reading a
// point-in-time snapshot.
package control

import (
	"github.com/aszurita/burgerline/dispenser"
	"github.com/aszurita/burgerline/lane"
	"golang.org/x/xerrors"
)

// Plane binds the control operations to a concrete set of lanes plus a
// length reader for the FIFO and the engine's running counters. It has no
// knowledge of goroutine lifecycle; Shutdown is the engine's job (see the
// engine package), not this one's.
type Plane struct {
	lanes     []*lane.Lane
	queueLen  func() int
	queueCap  func() int
	admitted  func() int64
	completed func() int64
}

// New returns a Plane operating on lanes. queueLen/queueCap/admitted/
// completed back the Snapshot operation's fifo and counter fields.
func New(lanes []*lane.Lane, queueLen, queueCap func() int, admitted, completed func() int64) *Plane {
	return &Plane{
		lanes:     lanes,
		queueLen:  queueLen,
		queueCap:  queueCap,
		admitted:  admitted,
		completed: completed,
	}
}

func (p *Plane) lane(id int) (*lane.Lane, error) {
	for _, l := range p.lanes {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, xerrors.Errorf("control: no lane with id %d", id)
}

// PauseLane sets paused=true on the named lane. Idempotent.
func (p *Plane) PauseLane(id int) error {
	l, err := p.lane(id)
	if err != nil {
		return err
	}
	l.Pause()
	return nil
}

// ResumeLane clears paused on the named lane and wakes its worker.
// Idempotent.
func (p *Plane) ResumeLane(id int) error {
	l, err := p.lane(id)
	if err != nil {
		return err
	}
	l.Resume()
	return nil
}

// ResumeAll resumes every currently paused lane.
func (p *Plane) ResumeAll() {
	for _, l := range p.lanes {
		if l.Paused() {
			l.Resume()
		}
	}
}

// ReplenishLane fills every dispenser on the named lane to capacity and
// clears its replenish flag.
func (p *Plane) ReplenishLane(id int) error {
	l, err := p.lane(id)
	if err != nil {
		return err
	}
	l.Replenish()
	return nil
}

// AdjustIngredient applies delta to the named ingredient's dispenser on the
// named lane, clamped into [0, dispenser.Capacity].
func (p *Plane) AdjustIngredient(laneID int, ingredient string, delta int) error {
	l, err := p.lane(laneID)
	if err != nil {
		return err
	}
	d := l.Dispenser(ingredient)
	if d == nil {
		return xerrors.Errorf("control: lane %d does not stock %q", laneID, ingredient)
	}
	d.Adjust(delta)
	return nil
}

// FillIngredient sets the named ingredient's dispenser on the named lane to
// capacity.
func (p *Plane) FillIngredient(laneID int, ingredient string) error {
	l, err := p.lane(laneID)
	if err != nil {
		return err
	}
	d := l.Dispenser(ingredient)
	if d == nil {
		return xerrors.Errorf("control: lane %d does not stock %q", laneID, ingredient)
	}
	d.Fill()
	return nil
}

// Snapshot is a consistent-enough, point-in-time read of engine state for a
// renderer. Per-lane snapshots are lock-acquired lane by lane; the whole is
// not globally atomic, and consumers must tolerate skew across lanes.
type Snapshot struct {
	Lanes          []lane.Snapshot
	QueueLen       int
	QueueCap       int
	TotalAdmitted  int64
	TotalCompleted int64
}

// Snapshot returns a Snapshot of current engine state.
func (p *Plane) Snapshot() Snapshot {
	s := Snapshot{
		Lanes:          make([]lane.Snapshot, 0, len(p.lanes)),
		QueueLen:       p.queueLen(),
		QueueCap:       p.queueCap(),
		TotalAdmitted:  p.admitted(),
		TotalCompleted: p.completed(),
	}
	for _, l := range p.lanes {
		s.Lanes = append(s.Lanes, l.Snapshot())
	}
	return s
}

// DispenserCapacity re-exports dispenser.Capacity for callers that build
// UI affordances (e.g. "fill to N") without importing the dispenser
// package directly.
const DispenserCapacity = dispenser.Capacity
