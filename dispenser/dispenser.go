// Package dispenser implements the finest-grained resource in the plant: a
// named, bounded counter with its own lock, one per (lane, ingredient).
package dispenser

import "sync"

// Capacity is the maximum count any dispenser can hold. It is a per-build
// constant, per spec.md §3 (CAPACITY, 5-20 in observed revisions).
const Capacity = 20

// LowThreshold is the count at or below which the monitor considers an
// ingredient low.
const LowThreshold = 2

// Dispenser is a bounded counter guarded by its own mutex. Lane lock must
// never be held while acquiring a dispenser's lock from outside the lane
// that owns it, per the lock ordering in spec.md §5; the monitor and the
// control plane touch dispensers directly without ever taking a lane lock.
type Dispenser struct {
	mu    sync.Mutex
	name  string
	count int
}

// New returns a Dispenser for ingredient name, filled to Capacity.
func New(name string) *Dispenser {
	return &Dispenser{name: name, count: Capacity}
}

// Name returns the ingredient kind this dispenser holds.
func (d *Dispenser) Name() string { return d.name }

// Count returns a snapshot of the current count.
func (d *Dispenser) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Available reports whether the dispenser has at least one unit, the
// eligibility test the dispatcher applies per ingredient in a recipe.
func (d *Dispenser) Available() bool {
	return d.Count() > 0
}

// Decrement consumes one unit, clamping at 0 rather than going negative.
// The dispatcher's eligibility check is the only admission guard; a
// worker that races past it (e.g. due to a concurrent decrement on the
// same dispenser) simply clamps and the simulation continues, per
// spec.md §4.4.
func (d *Dispenser) Decrement() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.count > 0 {
		d.count--
	}
}

// Fill resets the dispenser to Capacity, used by replenish_lane.
func (d *Dispenser) Fill() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count = Capacity
}

// Adjust applies delta to the count, clamping into [0, Capacity]. It
// backs the interactive inventory editor's adjust_ingredient operation.
func (d *Dispenser) Adjust(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count += delta
	if d.count < 0 {
		d.count = 0
	} else if d.count > Capacity {
		d.count = Capacity
	}
}
