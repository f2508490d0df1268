package queue

import (
	"slices"
	"testing"
)

func TestPump_RunsOnlyOnDrain(t *testing.T) {
	p := NewPump(discardLogger, nil)
	var order []int
	p.Async(func() { order = append(order, 1) })
	p.Async(func() {
		order = append(order, 2)
		p.Async(func() { order = append(order, 3) })
	})
	if len(order) != 0 || p.Len() != 2 {
		t.Fatalf("tasks ran before drain: %v", order)
	}
	if n := p.Drain(); n != 3 {
		t.Fatalf("drained %d tasks, want 3", n)
	}
	if !slices.Equal(order, []int{1, 2, 3}) {
		t.Fatalf("order = %v", order)
	}
	if p.Drain() != 0 {
		t.Fatalf("second drain should be empty")
	}
}

func TestPump_PanicDoesNotStopDrain(t *testing.T) {
	var got any
	p := NewPump(discardLogger, func(v any) { got = v })
	ran := false
	p.Async(func() { panic("boom") })
	p.Async(func() { ran = true })
	p.Drain()
	if got != "boom" || !ran {
		t.Fatalf("panic=%v ran=%v", got, ran)
	}
}
