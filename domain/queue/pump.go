package queue

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Pump is a Dispatcher whose tasks run only when its owner calls Drain. The
// Tk event loop drains it from a timer so UI callbacks execute on the thread
// that owns the widgets.
type Pump struct {
	logger  *slog.Logger
	onPanic PanicHandler

	mu    sync.Mutex
	tasks []func()
}

// NewPump returns an empty pump. Without a panic handler a panicking task is
// logged and the remaining tasks still run.
func NewPump(logger *slog.Logger, onPanic PanicHandler) *Pump {
	return &Pump{logger: logger, onPanic: onPanic}
}

func (p *Pump) Async(fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.tasks = append(p.tasks, fn)
	p.mu.Unlock()
}

// Drain runs every task queued so far, plus tasks they queue, and returns the
// number executed.
func (p *Pump) Drain() int {
	n := 0
	for {
		p.mu.Lock()
		batch := p.tasks
		p.tasks = nil
		p.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			p.run(fn)
			n++
		}
	}
}

// Len reports queued tasks.
func (p *Pump) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *Pump) run(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			if p.logger != nil {
				p.logger.Error("ui task panicked", "panic", fmt.Sprint(v), "stack", string(debug.Stack()))
			}
			if p.onPanic != nil {
				p.onPanic(v)
			}
		}
	}()
	fn()
}
