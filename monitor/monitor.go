// Package monitor implements the periodic inventory sweep that raises and
// clears per-lane low-stock alerts.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/aszurita/burgerline/dispenser"
	"github.com/aszurita/burgerline/lane"
)

// SweepInterval is the cadence between inventory sweeps.
const SweepInterval = 15 * time.Second

// AlertDebounce suppresses a repeat alert on the same lane within this
// window of its last one.
const AlertDebounce = 30 * time.Second

// lowCountThreshold is the number of distinct low-but-not-out ingredients
// that triggers a generic low-stock alert, per spec.md §4.5.
const lowCountThreshold = 3

// Monitor periodically scans every lane's dispensers and drives its
// needs_replenish flag.
type Monitor struct {
	lanes []*lane.Lane
	now   func() time.Time
}

// New returns a Monitor scanning lanes on every sweep.
func New(lanes []*lane.Lane) *Monitor {
	return &Monitor{lanes: lanes, now: time.Now}
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		m.sweep()
		if !sleepCtx(ctx, SweepInterval) {
			return nil
		}
	}
}

func (m *Monitor) sweep() {
	for _, l := range m.lanes {
		m.sweepLane(l)
	}
}

// CheckLane runs an immediate, debounced inventory check on l, outside the
// periodic sweep cadence. The Lane Worker triggers this on every
// finalizing->idle transition, per spec.md §4.4.
func (m *Monitor) CheckLane(l *lane.Lane) {
	m.sweepLane(l)
}

func (m *Monitor) sweepLane(l *lane.Lane) {
	last := l.LastInventoryAlertAt()
	if !last.IsZero() && m.now().Sub(last) < AlertDebounce {
		return
	}

	var out, low int
	var outNames []string
	for _, name := range l.IngredientNames() {
		d := l.Dispenser(name)
		if d == nil {
			continue
		}
		switch {
		case d.Count() == 0:
			out++
			outNames = append(outNames, name)
		case d.Count() <= dispenser.LowThreshold:
			low++
		}
	}

	switch {
	case out > 0:
		l.RaiseInventoryAlert(fmt.Sprintf("OUT OF STOCK: %v", outNames))
	case low >= lowCountThreshold:
		l.RaiseInventoryAlert("LOW STOCK on multiple ingredients")
	default:
		l.SetNeedsReplenish(false)
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
