package collection

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// MemoryList is an in-memory ListSurface for one section. It applies batches
// the way a UI list does: deletes, reloads and move sources refer to the old
// items, inserts and move destinations to the new ones, and the result must
// match the data source's count. A batch that does not add up is rejected with
// ErrInconsistentUpdate and the list reloads from the source.
type MemoryList[T any] struct {
	section int
	source  func() []T
	logger  *slog.Logger

	mu      sync.Mutex
	items   []T
	inBatch bool
	batch   batchOps
	err     error
	reloads int
	batches int
}

type batchOps struct {
	deletes []int
	inserts []int
	reloads []int
	moves   []Move
}

// NewMemoryList returns an empty list for section reading its model from source.
func NewMemoryList[T any](section int, source func() []T, logger *slog.Logger) *MemoryList[T] {
	return &MemoryList[T]{section: section, source: source, logger: logger}
}

// Items returns a copy of the displayed items.
func (l *MemoryList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Len returns the number of displayed items.
func (l *MemoryList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Err returns the last batch error, if any.
func (l *MemoryList[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Stats reports how many full reloads and batches were applied.
func (l *MemoryList[T]) Stats() (reloads, batches int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reloads, l.batches
}

func (l *MemoryList[T]) ReloadData() {
	items := slices.Clone(l.source())
	l.mu.Lock()
	l.items = items
	l.reloads++
	l.mu.Unlock()
}

func (l *MemoryList[T]) PerformBatchUpdates(updates func(), completion func(bool)) {
	l.mu.Lock()
	if l.inBatch {
		l.mu.Unlock()
		panic("collection: nested PerformBatchUpdates")
	}
	l.inBatch = true
	l.batch = batchOps{}
	l.mu.Unlock()

	if updates != nil {
		updates()
	}
	after := l.source()

	l.mu.Lock()
	ops := l.batch
	l.inBatch = false
	l.batch = batchOps{}
	next, err := applyBatch(l.items, after, ops)
	if err != nil {
		l.err = err
		l.items = slices.Clone(after)
		l.reloads++
	} else {
		l.err = nil
		l.items = next
		l.batches++
	}
	l.mu.Unlock()

	if err != nil && l.logger != nil {
		l.logger.Error("batch rejected, reloading", "section", l.section, "error", err)
	}
	if completion != nil {
		completion(err == nil)
	}
}

func (l *MemoryList[T]) DeleteItems(paths []IndexPath) {
	l.record(paths, func(b *batchOps, it int) { b.deletes = append(b.deletes, it) })
}

func (l *MemoryList[T]) InsertItems(paths []IndexPath) {
	l.record(paths, func(b *batchOps, it int) { b.inserts = append(b.inserts, it) })
}

func (l *MemoryList[T]) ReloadItems(paths []IndexPath) {
	l.record(paths, func(b *batchOps, it int) { b.reloads = append(b.reloads, it) })
}

func (l *MemoryList[T]) MoveItem(from, to IndexPath) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mustBatch("MoveItem")
	l.batch.moves = append(l.batch.moves, Move{From: from.Item, To: to.Item})
}

func (l *MemoryList[T]) record(paths []IndexPath, add func(*batchOps, int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mustBatch("item update")
	for _, p := range paths {
		add(&l.batch, p.Item)
	}
}

func (l *MemoryList[T]) mustBatch(op string) {
	if !l.inBatch {
		panic(fmt.Sprintf("collection: %s outside PerformBatchUpdates", op))
	}
}

// applyBatch builds the new item list. Moved, inserted and reloaded items take
// their value from after; untouched items keep their old value.
func applyBatch[T any](before, after []T, ops batchOps) ([]T, error) {
	oldGone := make(map[int]bool, len(ops.deletes)+len(ops.moves))
	for _, i := range ops.deletes {
		if i < 0 || i >= len(before) || oldGone[i] {
			return nil, fmt.Errorf("%w: delete of item %d (old count %d)", ErrInconsistentUpdate, i, len(before))
		}
		oldGone[i] = true
	}
	reload := make(map[int]bool, len(ops.reloads))
	for _, i := range ops.reloads {
		if i < 0 || i >= len(before) || oldGone[i] {
			return nil, fmt.Errorf("%w: reload of item %d (old count %d)", ErrInconsistentUpdate, i, len(before))
		}
		reload[i] = true
	}

	newTaken := make(map[int]bool, len(ops.inserts)+len(ops.moves))
	for _, i := range ops.inserts {
		if i < 0 || i >= len(after) || newTaken[i] {
			return nil, fmt.Errorf("%w: insert at %d (new count %d)", ErrInconsistentUpdate, i, len(after))
		}
		newTaken[i] = true
	}
	for _, m := range ops.moves {
		if m.From < 0 || m.From >= len(before) || oldGone[m.From] || reload[m.From] {
			return nil, fmt.Errorf("%w: move from %d (old count %d)", ErrInconsistentUpdate, m.From, len(before))
		}
		if m.To < 0 || m.To >= len(after) || newTaken[m.To] {
			return nil, fmt.Errorf("%w: move to %d (new count %d)", ErrInconsistentUpdate, m.To, len(after))
		}
		oldGone[m.From] = true
		newTaken[m.To] = true
	}

	if want := len(before) - len(ops.deletes) + len(ops.inserts); want != len(after) {
		return nil, fmt.Errorf("%w: %d items - %d deleted + %d inserted != %d", ErrInconsistentUpdate,
			len(before), len(ops.deletes), len(ops.inserts), len(after))
	}

	out := make([]T, len(after))
	old := 0
	for pos := range out {
		if newTaken[pos] {
			out[pos] = after[pos]
			continue
		}
		for oldGone[old] {
			old++
		}
		if reload[old] {
			out[pos] = after[pos]
		} else {
			out[pos] = before[old]
		}
		old++
	}
	return out, nil
}

var _ ListSurface = (*MemoryList[int])(nil)
