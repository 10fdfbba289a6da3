package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/floorplan-editor/pkg/logging"
)

// ChangeEvent represents a batch of plan file changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// PlanWatcher watches a plan file for external edits. The containing
// directory is watched rather than the file itself so that editors
// that replace the file on save keep being observed.
type PlanWatcher struct {
	watcher  *fsnotify.Watcher
	planPath string
	events   chan ChangeEvent
	done     chan struct{}
}

// NewPlanWatcher creates a new file system watcher for a plan file
func NewPlanWatcher(planPath string) (*PlanWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(planPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve plan path: %w", err)
	}

	return &PlanWatcher{
		watcher:  watcher,
		planPath: abs,
		events:   make(chan ChangeEvent, 100),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for plan file changes
func (pw *PlanWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(pw.planPath)
	if err := pw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("started watching plan file", "path", pw.planPath)
	go pw.processEvents(ctx)
	return nil
}

// processEvents filters directory events down to the plan file and
// batches rapid write sequences into one change event
func (pw *PlanWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		pw.events <- ChangeEvent{
			Paths:     pending,
			Timestamp: time.Now(),
		}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			pw.watcher.Close()
			close(pw.events)
			close(pw.done)
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != pw.planPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (pw *PlanWatcher) Events() <-chan ChangeEvent {
	return pw.events
}

// Stop stops the plan watcher
func (pw *PlanWatcher) Stop() error {
	close(pw.done)
	return pw.watcher.Close()
}
