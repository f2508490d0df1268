// Package queue provides the serial execution domains used by the picker.
//
// A Serial runs submitted tasks one at a time in FIFO order on a single
// goroutine. It can be suspended (tasks keep queueing but none start) and
// resumed, mirroring how the capture pipeline parks configuration work while an
// authorization prompt is outstanding.
package queue

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Dispatcher accepts work for asynchronous, ordered execution.
type Dispatcher interface {
	Async(fn func())
}

// PanicHandler receives the recovered value of a panicking task.
type PanicHandler func(v any)

// Serial is a FIFO, at-most-one-active task queue.
type Serial struct {
	name    string
	logger  *slog.Logger
	onPanic PanicHandler

	mu        sync.Mutex
	cond      *sync.Cond
	tasks     []func()
	suspended int
	closed    bool
	done      chan struct{}
}

// Option configures a Serial.
type Option func(*Serial)

// WithPanicHandler installs h for panics raised by tasks. Without a handler the
// panic is logged and re-raised, terminating the process.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *Serial) { s.onPanic = h }
}

// NewSerial starts a queue named name. Close stops it.
func NewSerial(name string, logger *slog.Logger, opts ...Option) *Serial {
	s := &Serial{name: name, logger: logger, done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	for _, o := range opts {
		o(s)
	}
	go s.loop()
	return s
}

// Name returns the queue label.
func (s *Serial) Name() string { return s.name }

// Async enqueues fn. It never blocks. Tasks submitted after Close are dropped.
func (s *Serial) Async(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if s.logger != nil {
			s.logger.Warn("task submitted to closed queue dropped", "queue", s.name)
		}
		return
	}
	s.tasks = append(s.tasks, fn)
	s.cond.Signal()
}

// Sync enqueues fn and waits for it to finish. Calling Sync from a task of the
// same queue deadlocks. Returns false if the queue was closed before fn ran.
func (s *Serial) Sync(fn func()) bool {
	ran := make(chan struct{})
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks, func() {
		defer close(ran)
		if fn != nil {
			fn()
		}
	})
	s.cond.Signal()
	s.mu.Unlock()
	select {
	case <-ran:
		return true
	case <-s.done:
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// Suspend stops tasks from starting until a matching Resume. A task already
// running is not interrupted. Calls nest.
func (s *Serial) Suspend() {
	s.mu.Lock()
	s.suspended++
	s.mu.Unlock()
}

// Resume balances one Suspend. Unbalanced calls are logged and ignored.
func (s *Serial) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended == 0 {
		if s.logger != nil {
			s.logger.Error("unbalanced queue resume", "queue", s.name)
		}
		return
	}
	s.suspended--
	if s.suspended == 0 {
		s.cond.Signal()
	}
}

// Len reports the number of tasks waiting to run.
func (s *Serial) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Suspended reports whether the queue is currently parked.
func (s *Serial) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended > 0
}

// Close stops accepting work. Pending tasks still run unless the queue is
// suspended, in which case they are discarded. Close blocks until the worker
// exits.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.cond.Signal()
	s.mu.Unlock()
	<-s.done
}

func (s *Serial) loop() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for !s.closed && (len(s.tasks) == 0 || s.suspended > 0) {
			s.cond.Wait()
		}
		if s.closed && (len(s.tasks) == 0 || s.suspended > 0) {
			if n := len(s.tasks); n > 0 && s.logger != nil {
				s.logger.Warn("queue closed while suspended, discarding tasks", "queue", s.name, "tasks", n)
			}
			s.tasks = nil
			s.mu.Unlock()
			return
		}
		fn := s.tasks[0]
		s.tasks[0] = nil
		s.tasks = s.tasks[1:]
		s.mu.Unlock()
		s.run(fn)
	}
}

func (s *Serial) run(fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if s.logger != nil {
			s.logger.Error("queue task panic", "queue", s.name, "error", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
		if s.onPanic == nil {
			panic(r)
		}
		s.onPanic(r)
	}()
	fn()
}

var _ Dispatcher = (*Serial)(nil)
