// Package debug holds the periodic runtime loggers enabled by the debug flag.
package debug

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// QueueDepths reports pending task counts by queue name.
type QueueDepths func() map[string]int

// StartGoroutineLogger logs goroutine count, stack memory and, when depths
// is set, queue backlogs every interval.
func StartGoroutineLogger(interval time.Duration, logger *slog.Logger, depths QueueDepths) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("stack_sys", ms.StackSys),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
			}
			if depths != nil {
				for name, n := range depths() {
					attrs = append(attrs, slog.Int("queue_"+name, n))
				}
			}
			logger.Info("goroutine-stacks", attrs...)
		}
	}()
}
