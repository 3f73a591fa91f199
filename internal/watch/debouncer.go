package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer collapses a burst of data file events into a single reload.
// The reload fires once no event arrived for the interval and receives the
// number of events the burst held.
type Debouncer struct {
	interval time.Duration
	reload   func(events int)

	mu      sync.Mutex
	timer   *time.Timer
	pending int
}

func NewDebouncer(interval time.Duration, reload func(events int)) *Debouncer {
	return &Debouncer{
		interval: interval,
		reload:   reload,
	}
}

// Trigger counts one event and restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending++
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
		return
	}
	d.timer.Reset(d.interval)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	n := d.pending
	d.pending = 0
	d.timer = nil
	d.mu.Unlock()

	// A Reset racing with an expired timer can fire twice.
	if n == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("reload panicked", slog.Any("error", r), slog.Int("events", n))
		}
	}()
	d.reload(n)
}

// Pending returns the number of events waiting for the next reload.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop drops pending events and cancels the reload.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = 0
}
