package queue

import (
	"log/slog"
	"sync"
	"testing"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSerial_RunsInSubmissionOrder(t *testing.T) {
	q := NewSerial("test", discardLogger)
	defer q.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Async(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Sync(func() {})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("expected 100 tasks, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestSerial_AtMostOneActive(t *testing.T) {
	q := NewSerial("test", discardLogger)
	defer q.Close()

	var mu sync.Mutex
	active, maxActive := 0, 0
	for i := 0; i < 20; i++ {
		q.Async(func() {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		})
	}
	q.Sync(func() {})
	if maxActive != 1 {
		t.Fatalf("expected exactly one active task, saw %d", maxActive)
	}
}

func TestSerial_SuspendParksTasksUntilResume(t *testing.T) {
	q := NewSerial("test", discardLogger)
	defer q.Close()

	q.Suspend()
	ran := make(chan struct{})
	q.Async(func() { close(ran) })

	select {
	case <-ran:
		t.Fatal("task ran while queue suspended")
	case <-time.After(30 * time.Millisecond):
	}
	if !q.Suspended() || q.Len() != 1 {
		t.Fatalf("expected suspended queue with 1 pending task, suspended=%v len=%d", q.Suspended(), q.Len())
	}

	q.Resume()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run after resume")
	}
}

func TestSerial_SuspendNests(t *testing.T) {
	q := NewSerial("test", discardLogger)
	defer q.Close()

	q.Suspend()
	q.Suspend()
	ran := make(chan struct{})
	q.Async(func() { close(ran) })
	q.Resume()
	select {
	case <-ran:
		t.Fatal("task ran with one outstanding suspension")
	case <-time.After(30 * time.Millisecond):
	}
	q.Resume()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run after final resume")
	}
}

func TestSerial_UnbalancedResumeIgnored(t *testing.T) {
	q := NewSerial("test", discardLogger)
	defer q.Close()
	q.Resume()
	if q.Suspended() {
		t.Fatal("unbalanced resume must not suspend")
	}
	if !q.Sync(func() {}) {
		t.Fatal("queue should still run tasks")
	}
}

func TestSerial_PanicHandlerReceivesValue(t *testing.T) {
	got := make(chan any, 1)
	q := NewSerial("test", discardLogger, WithPanicHandler(func(v any) { got <- v }))
	defer q.Close()

	q.Async(func() { panic("boom") })
	select {
	case v := <-got:
		if v != "boom" {
			t.Fatalf("unexpected panic value %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("panic handler not called")
	}
	if !q.Sync(func() {}) {
		t.Fatal("queue must keep running after a handled panic")
	}
}

func TestSerial_CloseDrainsPendingAndDropsLateWork(t *testing.T) {
	q := NewSerial("test", discardLogger)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 10; i++ {
		q.Async(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	q.Close()
	q.Async(func() {
		mu.Lock()
		count += 100
		mu.Unlock()
	})
	if q.Sync(func() {}) {
		t.Fatal("Sync after Close should report false")
	}
	mu.Lock()
	defer mu.Unlock()
	if count != 10 {
		t.Fatalf("expected 10 drained tasks, got %d", count)
	}
}
