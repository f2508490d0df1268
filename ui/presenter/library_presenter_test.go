package presenter

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/soocke/assetpicker-go/domain/collection"
	"github.com/soocke/assetpicker-go/domain/library"
	"github.com/soocke/assetpicker-go/domain/queue"
	"github.com/soocke/assetpicker-go/ui/model"
)

var discardLogger = slog.New(slog.DiscardHandler)

type fakeObservable struct {
	mu     sync.Mutex
	assets []library.Asset
	subs   map[int]func(library.Change)
	next   int
}

func newFakeObservable(ids ...string) *fakeObservable {
	return &fakeObservable{assets: named(ids...), subs: map[int]func(library.Change){}}
}

func (o *fakeObservable) Assets() []library.Asset {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.assets)
}

func (o *fakeObservable) Subscribe(fn func(library.Change)) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// set replaces the contents and notifies from another goroutine, like the
// directory watcher does.
func (o *fakeObservable) set(ids ...string) {
	o.mu.Lock()
	before := o.assets
	o.assets = named(ids...)
	c := library.Change{Before: before, After: slices.Clone(o.assets), Diff: library.ComputeDiff(before, o.assets)}
	subs := make([]func(library.Change), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()
	var wg sync.WaitGroup
	for _, fn := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(c)
		}()
	}
	wg.Wait()
}

func named(ids ...string) []library.Asset {
	out := make([]library.Asset, len(ids))
	for i, id := range ids {
		out[i] = library.Asset{ID: id, Path: id + ".jpg"}
	}
	return out
}

type libraryHarness struct {
	lib   *fakeObservable
	ui    *queue.Pump
	model *model.PickerModel
	list  *collection.MemoryList[library.Asset]
	p     *LibraryPresenter
}

func newLibraryHarness(t *testing.T, pageSize, maxSelection int, ids ...string) *libraryHarness {
	t.Helper()
	h := &libraryHarness{lib: newFakeObservable(ids...), ui: queue.NewPump(discardLogger, nil)}
	h.model = model.NewPickerModel([]string{"Browse"}, pageSize, maxSelection)
	h.list = collection.NewMemoryList(0, h.model.VisibleAssets, discardLogger)
	coord := collection.NewUpdatesCoordinator(h.ui, h.list, discardLogger)
	h.p = NewLibraryPresenter(h.lib, coord, h.ui, h.model, discardLogger)
	h.ui.Async(h.p.Start)
	h.ui.Drain()
	t.Cleanup(h.p.Stop)
	return h
}

func (h *libraryHarness) check(t *testing.T, want ...string) {
	t.Helper()
	h.ui.Drain()
	if err := h.list.Err(); err != nil {
		t.Fatalf("surface rejected an update: %v", err)
	}
	got := make([]string, 0, h.list.Len())
	for _, a := range h.list.Items() {
		got = append(got, a.ID)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("grid shows %v, want %v", got, want)
	}
}

func TestLibraryPresenter_FollowsChangesWithinPage(t *testing.T) {
	h := newLibraryHarness(t, 2, 0, "a", "b", "c", "d", "e")
	h.check(t, "a", "b")

	h.lib.set("n", "a", "b", "c", "d", "e")
	h.check(t, "n", "a")

	h.lib.set("a", "n", "c", "d")
	h.check(t, "a", "n")

	if reloads, batches := h.list.Stats(); reloads != 1 || batches != 2 {
		t.Fatalf("reloads=%d batches=%d, want one initial reload then batches", reloads, batches)
	}
}

func TestLibraryPresenter_LoadMore(t *testing.T) {
	h := newLibraryHarness(t, 2, 0, "a", "b", "c", "d", "e")
	if !h.p.LoadMore() {
		t.Fatalf("second page should exist")
	}
	h.check(t, "a", "b", "c", "d")
	h.p.LoadMore()
	h.check(t, "a", "b", "c", "d", "e")
	if h.p.LoadMore() {
		t.Fatalf("no page left")
	}
	if h.model.HasMore() {
		t.Fatalf("model still reports more pages")
	}
}

func TestLibraryPresenter_SelectionSurvivesReorderAndDropsOnRemoval(t *testing.T) {
	h := newLibraryHarness(t, 10, 1, "a", "b", "c")
	if on, err := h.p.Toggle(1); !on || err != nil {
		t.Fatalf("select b: %v %v", on, err)
	}
	if _, err := h.p.Toggle(0); !errors.Is(err, model.ErrSelectionLimit) {
		t.Fatalf("expected selection limit, got %v", err)
	}
	h.check(t, "a", "b", "c")

	h.lib.set("c", "b", "a")
	h.check(t, "c", "b", "a")
	if got := h.model.Selected(); !slices.Equal(got, []string{"b"}) {
		t.Fatalf("selection lost on reorder: %v", got)
	}

	h.lib.set("c", "a")
	h.check(t, "c", "a")
	if got := h.model.Selected(); len(got) != 0 {
		t.Fatalf("removed asset still selected: %v", got)
	}
	if on, _ := h.p.Toggle(7); on {
		t.Fatalf("out of range toggle selected something")
	}
}

func TestLibraryPresenter_StopDetaches(t *testing.T) {
	h := newLibraryHarness(t, 10, 0, "a")
	h.p.Stop()
	h.lib.set("a", "b")
	h.check(t, "a")
}
