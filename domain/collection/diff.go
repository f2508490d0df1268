// Package collection keeps a list surface consistent with a changing data set.
//
// Changes arrive as a Diff. A BatchAnimation applies one diff as a single
// batch in the fixed order delete, insert, reload, move. An UpdatesCoordinator
// serializes every batch and data-source update on the UI dispatcher so that
// one change never interleaves with another.
package collection

import (
	"errors"
	"fmt"
)

// ErrInconsistentUpdate reports a batch whose operations do not turn the old
// item count into the new one, or that reference items out of range.
var ErrInconsistentUpdate = errors.New("collection: inconsistent batch update")

// IndexPath addresses one item of one section.
type IndexPath struct {
	Section int
	Item    int
}

func (p IndexPath) String() string { return fmt.Sprintf("%d.%d", p.Section, p.Item) }

// Move relocates one item. From indexes the list before the change, To the
// list after it.
type Move struct {
	From, To int
}

// Diff describes the change between two snapshots of one section. Removed,
// Changed and Move.From index the old snapshot; Inserted and Move.To index the
// new one. A diff that is not Incremental carries no detail and forces a
// full reload.
type Diff struct {
	Incremental bool
	Removed     []int
	Inserted    []int
	Changed     []int
	Moves       []Move
}

// IsEmpty reports whether an incremental diff changes nothing.
func (d Diff) IsEmpty() bool {
	return d.Incremental && len(d.Removed) == 0 && len(d.Inserted) == 0 && len(d.Changed) == 0 && len(d.Moves) == 0
}

// IndexPaths maps item indexes into section.
func IndexPaths(section int, items []int) []IndexPath {
	if len(items) == 0 {
		return nil
	}
	out := make([]IndexPath, len(items))
	for i, it := range items {
		out[i] = IndexPath{Section: section, Item: it}
	}
	return out
}

// ListSurface is the UI list the coordinator drives. Calls happen on the UI
// dispatcher. Item operations are only issued inside PerformBatchUpdates.
type ListSurface interface {
	ReloadData()
	// PerformBatchUpdates runs updates, which issues the item operations and
	// updates the model, then animates them as one batch and calls completion.
	PerformBatchUpdates(updates func(), completion func(finished bool))
	DeleteItems(paths []IndexPath)
	InsertItems(paths []IndexPath)
	ReloadItems(paths []IndexPath)
	MoveItem(from, to IndexPath)
}
