package collection

import (
	"log/slog"
	"sync"

	"github.com/soocke/assetpicker-go/domain/queue"
)

// operation is one asynchronous step; it must call done exactly once.
type operation struct {
	name string
	run  func(done func())
}

// UpdatesCoordinator is a FIFO of list mutations on the UI dispatcher. An
// operation starts only after the previous one signalled completion, so a
// data-source update never overtakes a pending batch animation.
type UpdatesCoordinator struct {
	ui      queue.Dispatcher
	surface ListSurface
	logger  *slog.Logger

	mu      sync.Mutex
	pending []operation
	busy    bool
}

// NewUpdatesCoordinator drives surface from ui.
func NewUpdatesCoordinator(ui queue.Dispatcher, surface ListSurface, logger *slog.Logger) *UpdatesCoordinator {
	return &UpdatesCoordinator{ui: ui, surface: surface, logger: logger}
}

// PerformDataSourceUpdate runs fn in order with the other operations.
func (c *UpdatesCoordinator) PerformDataSourceUpdate(fn func()) {
	c.enqueue(operation{name: "data-source", run: func(done func()) {
		if fn != nil {
			fn()
		}
		done()
	}})
}

// PerformChangesUpdate animates diff on section. updateModel swaps the data
// source to the snapshot the diff leads to.
func (c *UpdatesCoordinator) PerformChangesUpdate(section int, diff Diff, updateModel func()) {
	c.enqueue(operation{name: "changes", run: func(done func()) {
		BatchAnimation{
			Surface:     c.surface,
			Section:     section,
			Diff:        diff,
			UpdateModel: updateModel,
		}.Run(done)
	}})
}

// PerformReload swaps the model and reloads the whole surface.
func (c *UpdatesCoordinator) PerformReload(updateModel func()) {
	c.PerformChangesUpdate(0, Diff{}, updateModel)
}

// Pending reports the number of operations not yet started.
func (c *UpdatesCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *UpdatesCoordinator) enqueue(op operation) {
	c.mu.Lock()
	c.pending = append(c.pending, op)
	start := !c.busy
	c.busy = true
	c.mu.Unlock()
	if start {
		c.ui.Async(c.next)
	}
}

func (c *UpdatesCoordinator) next() {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.busy = false
		c.mu.Unlock()
		return
	}
	op := c.pending[0]
	c.pending[0] = operation{}
	c.pending = c.pending[1:]
	c.mu.Unlock()

	var once sync.Once
	op.run(func() {
		called := false
		once.Do(func() {
			called = true
			c.ui.Async(c.next)
		})
		if !called && c.logger != nil {
			c.logger.Error("collection operation completed twice", "op", op.name)
		}
	})
}
