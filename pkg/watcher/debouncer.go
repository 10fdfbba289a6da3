package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/ritzau/floorplan-editor/pkg/logging"
)

// Debouncer batches rapid file system events to avoid excessive reloads
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration

	mu           sync.Mutex
	timer        *time.Timer
	maxWaitTimer *time.Timer
	accumulated  []string
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// run accumulates incoming events and flushes a batch after a quiet
// period, or after maxWait when events keep arriving. The timers fire
// flush on their own goroutines, so everything they touch is guarded
// by d.mu.
func (d *Debouncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				d.flush()
				close(d.output)
				return
			}
			d.accumulate(event)
		}
	}
}

func (d *Debouncer) accumulate(event ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.accumulated = append(d.accumulated, event.Paths...)

	// Reset quiet period timer
	if d.timer == nil {
		d.timer = time.AfterFunc(d.quietPeriod, d.flush)
	} else {
		d.timer.Reset(d.quietPeriod)
	}

	// Start max wait timer on first event
	if d.maxWaitTimer == nil {
		d.maxWaitTimer = time.AfterFunc(d.maxWait, d.flush)
	}
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.accumulated) == 0 {
		return
	}

	logging.Debug("flushing accumulated plan changes", "count", len(d.accumulated))
	d.output <- ChangeEvent{
		Paths:     d.accumulated,
		Timestamp: time.Now(),
	}
	d.accumulated = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.maxWaitTimer != nil {
		d.maxWaitTimer.Stop()
		d.maxWaitTimer = nil
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
