// Package debounce coalesces bursts of input events so that only the last one is acted upon
// after a quiet interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the quiet time after the last keystroke before a search runs.
const DefaultInterval = 300 * time.Millisecond

// Ticket identifies one scheduled action.
type Ticket uint64

// Debouncer hands out tickets; only the most recent ticket is ready to fire. It does not own a
// timer, so event loops can wait with their own primitives (e.g. tea.Tick) and ask Ready when the
// wait is over. Run is provided for callers without one.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	latest   Ticket
	timer    *time.Timer
}

func New(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Schedule supersedes any pending ticket and returns a new one.
func (d *Debouncer) Schedule() Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return d.latest
}

// Ready reports whether the ticket has not been superseded or canceled.
func (d *Debouncer) Ready(ticket Ticket) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ticket != 0 && ticket == d.latest
}

// Cancel invalidates the pending ticket.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Run schedules fn to run after the quiet interval unless another call supersedes it first.
func (d *Debouncer) Run(fn func()) Ticket {
	ticket := d.Schedule()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.timer = time.AfterFunc(d.interval, func() {
		if d.Ready(ticket) {
			fn()
		}
	})
	return ticket
}
