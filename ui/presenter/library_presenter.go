package presenter

import (
	"log/slog"
	"slices"

	"github.com/soocke/assetpicker-go/domain/collection"
	"github.com/soocke/assetpicker-go/domain/library"
	"github.com/soocke/assetpicker-go/domain/queue"
	"github.com/soocke/assetpicker-go/ui/model"
)

// Updates is the part of collection.UpdatesCoordinator the presenter uses.
type Updates interface {
	PerformChangesUpdate(section int, diff collection.Diff, updateModel func())
	PerformReload(updateModel func())
}

// LibraryPresenter keeps the asset section of the grid in step with the
// library. Library changes arrive on any goroutine and are hopped onto the
// UI dispatcher; the presenter tracks the window the grid will show once
// every queued update has run, and diffs against that.
type LibraryPresenter struct {
	lib     library.Observable
	updates Updates
	ui      queue.Dispatcher
	model   *model.PickerModel
	logger  *slog.Logger

	all         []library.Asset // as of the last queued update
	shown       []library.Asset // window the grid will show
	visible     int
	unsubscribe func()
}

func NewLibraryPresenter(lib library.Observable, updates Updates, ui queue.Dispatcher, m *model.PickerModel, logger *slog.Logger) *LibraryPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LibraryPresenter{lib: lib, updates: updates, ui: ui, model: m, logger: logger.With("component", "library-presenter")}
}

// Start loads the first page and follows library changes. Call on the UI
// dispatcher.
func (p *LibraryPresenter) Start() {
	if p.unsubscribe != nil {
		return
	}
	p.unsubscribe = p.lib.Subscribe(func(c library.Change) {
		p.ui.Async(func() { p.apply(c.After) })
	})
	p.all = p.lib.Assets()
	p.visible = p.model.Visible()
	p.shown = window(p.all, p.visible)
	all := p.all
	p.updates.PerformReload(func() { p.model.SetAssets(all) })
}

// Stop detaches from the library.
func (p *LibraryPresenter) Stop() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *LibraryPresenter) section() int { return p.model.SectionIndex(model.SectionAssets) }

func (p *LibraryPresenter) apply(after []library.Asset) {
	next := window(after, p.visible)
	diff := library.ComputeDiff(p.shown, next)
	p.all, p.shown = after, next
	if diff.IsEmpty() {
		p.model.SetAssets(after)
		return
	}
	p.logger.Debug("library changed",
		"removed", len(diff.Removed), "inserted", len(diff.Inserted),
		"changed", len(diff.Changed), "moved", len(diff.Moves))
	p.updates.PerformChangesUpdate(p.section(), diff, func() { p.model.SetAssets(after) })
}

// LoadMore shows the next page, if any.
func (p *LibraryPresenter) LoadMore() bool {
	if len(p.shown) >= len(p.all) {
		return false
	}
	p.visible += p.model.PageSize()
	next := window(p.all, p.visible)
	diff := library.ComputeDiff(p.shown, next)
	p.shown = next
	visible := p.visible
	p.updates.PerformChangesUpdate(p.section(), diff, func() { p.model.SetVisible(visible) })
	return true
}

// Toggle flips the selection of the asset at item and redraws that cell.
func (p *LibraryPresenter) Toggle(item int) (bool, error) {
	if item < 0 || item >= len(p.shown) {
		return false, nil
	}
	on, err := p.model.Toggle(p.shown[item].ID)
	if err != nil {
		return false, err
	}
	p.updates.PerformChangesUpdate(p.section(), collection.Diff{Incremental: true, Changed: []int{item}}, nil)
	return on, nil
}

// Shown returns the window the grid will show once queued updates ran.
func (p *LibraryPresenter) Shown() []library.Asset { return slices.Clone(p.shown) }

func window(as []library.Asset, n int) []library.Asset {
	return slices.Clone(as[:min(n, len(as))])
}
