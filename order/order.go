// Package order defines the Order value that flows from the generator,
// through the FIFO, into a lane, and out as a completion or a drop.
package order

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
)

// NoLane is the sentinel AssignedLane value for an order that is not
// currently owned by any lane (i.e. it is sitting in the FIFO, or has not
// yet been admitted).
const NoLane = -1

// Order is one instance of a burger type in flight through the plant.
//
// Invariants: ProgressStep <= len(Recipe); AssignedLane is set (!= NoLane)
// iff the order is owned by a lane worker and therefore not present in the
// FIFO.
type Order struct {
	// ID is a monotonically increasing, positive integer unique within a
	// run. It defines FIFO admission order.
	ID int

	// TraceID correlates an order's log entries across the dispatcher
	// hand-off and the lane worker's processing loop. It has no bearing
	// on ordering or identity — ID is authoritative for that.
	TraceID uuid.UUID

	// Kind is the index into menu.Catalogue this order was built from.
	Kind int

	// Name is a denormalized copy of the burger name, so callers don't
	// need the menu package just to log or render an order.
	Name string

	// Recipe is an ordered, independent copy of the burger type's
	// ingredient list: the preparation order for this order specifically.
	Recipe []string

	CreatedAt time.Time

	// ProgressStep counts how many ingredients of Recipe have been
	// applied so far, 0..=len(Recipe).
	ProgressStep int

	// AssignmentAttempts counts dispatcher attempts to place this order
	// on a lane; bounded by dispatcher.RetryCap.
	AssignmentAttempts int

	// AssignedLane is the lane ID that owns this order, or NoLane.
	AssignedLane int
}

// New builds an Order for burger kind with the given id, taking ownership
// of recipe (callers must pass an already-independent copy, e.g. from
// menu.Recipe).
func New(id int, kind int, name string, recipe []string) (*Order, error) {
	if id <= 0 {
		return nil, xerrors.Errorf("order: id must be positive, got %d", id)
	}
	if len(recipe) == 0 || len(recipe) > 15 {
		return nil, xerrors.Errorf("order: recipe length %d out of range [1,15]", len(recipe))
	}
	return &Order{
		ID:           id,
		TraceID:      uuid.New(),
		Kind:         kind,
		Name:         name,
		Recipe:       recipe,
		CreatedAt:    time.Now(),
		AssignedLane: NoLane,
	}, nil
}

// Clone returns a deep copy of o, safe to hand to a lane worker without
// aliasing the FIFO's internal storage.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Recipe = make([]string, len(o.Recipe))
	copy(cp.Recipe, o.Recipe)
	return &cp
}

// Done reports whether every ingredient in Recipe has been applied.
func (o *Order) Done() bool {
	return o.ProgressStep >= len(o.Recipe)
}
