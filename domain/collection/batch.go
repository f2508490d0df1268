package collection

// BatchAnimation applies one Diff to a section of a surface.
type BatchAnimation struct {
	Surface ListSurface
	Section int
	Diff    Diff
	// UpdateModel swaps the data source to the new snapshot. It runs inside
	// the batch, before any item operation.
	UpdateModel func()
}

// Run applies the diff and calls done once the surface has finished. A diff
// without incremental detail updates the model and reloads everything.
func (b BatchAnimation) Run(done func()) {
	if !b.Diff.Incremental {
		b.updateModel()
		b.Surface.ReloadData()
		if done != nil {
			done()
		}
		return
	}
	b.Surface.PerformBatchUpdates(func() {
		b.updateModel()
		if len(b.Diff.Removed) > 0 {
			b.Surface.DeleteItems(IndexPaths(b.Section, b.Diff.Removed))
		}
		if len(b.Diff.Inserted) > 0 {
			b.Surface.InsertItems(IndexPaths(b.Section, b.Diff.Inserted))
		}
		if len(b.Diff.Changed) > 0 {
			b.Surface.ReloadItems(IndexPaths(b.Section, b.Diff.Changed))
		}
		for _, m := range b.Diff.Moves {
			b.Surface.MoveItem(IndexPath{Section: b.Section, Item: m.From}, IndexPath{Section: b.Section, Item: m.To})
		}
	}, func(bool) {
		if done != nil {
			done()
		}
	})
}

func (b BatchAnimation) updateModel() {
	if b.UpdateModel != nil {
		b.UpdateModel()
	}
}
